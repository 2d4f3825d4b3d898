package movieclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Behyna/cinefund/pkg/httpclient"
	"github.com/shopspring/decimal"
)

type MovieClient interface {
	GetMovie(ctx context.Context, movieID int64) (Movie, error)
	UpdateRaisedAmount(ctx context.Context, movieID int64, amount decimal.Decimal) (Movie, error)
}

type movieClient struct {
	cfg    Config
	client httpclient.HTTPClient
}

func NewMovieClient(cfg Config, client httpclient.HTTPClient) MovieClient {
	return &movieClient{cfg: cfg, client: client}
}

func (m *movieClient) GetMovie(ctx context.Context, movieID int64) (Movie, error) {
	resp, err := m.client.Get(ctx, m.movieURL(movieID), acceptJSON)
	if err != nil {
		return Movie{}, transportError(err)
	}

	return decodeMovie(resp)
}

func (m *movieClient) UpdateRaisedAmount(ctx context.Context, movieID int64, amount decimal.Decimal) (Movie, error) {
	endpoint := fmt.Sprintf("%s/funding?amount=%s", m.movieURL(movieID), url.QueryEscape(amount.String()))

	resp, err := m.client.Put(ctx, endpoint, nil, acceptJSON)
	if err != nil {
		return Movie{}, transportError(err)
	}

	return decodeMovie(resp)
}

var acceptJSON = map[string]string{"Accept": "application/json"}

func (m *movieClient) movieURL(movieID int64) string {
	return fmt.Sprintf("%s/api/movies/%d", m.cfg.BaseURL, movieID)
}

func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	return err
}

func decodeMovie(resp *http.Response) (Movie, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Movie{}, mapStatusToError(resp.StatusCode)
	}

	var movie Movie
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		return Movie{}, fmt.Errorf("decoding error: %w", err)
	}

	return movie, nil
}
