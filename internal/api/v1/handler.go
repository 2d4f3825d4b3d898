package v1

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Behyna/cinefund/internal/api/contract"
	"github.com/Behyna/cinefund/internal/api/validator"
	"github.com/Behyna/cinefund/internal/constants"
	"github.com/Behyna/cinefund/internal/service"
	"github.com/Behyna/cinefund/pkg/mq"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const collectionDateLayout = "2006-01-02"

type Handler struct {
	logger      *zap.Logger
	investments service.InvestmentService
	returns     service.ReturnsService
	publisher   mq.Publisher
	XValidator  validator.IXValidator
}

func NewHandler(logger *zap.Logger, investments service.InvestmentService, returns service.ReturnsService,
	publisher mq.Publisher, XValidator validator.IXValidator) *Handler {
	return &Handler{
		logger:      logger,
		investments: investments,
		returns:     returns,
		publisher:   publisher,
		XValidator:  XValidator,
	}
}

func (h *Handler) Invest(c *fiber.Ctx) error {
	var request InvestRequest

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Warn("Invalid investment request",
			zap.String("code", responseError.Code),
			zap.String("message", responseError.Message))
		return c.JSON(responseError)
	}

	cmd := service.CreateInvestmentCommand{
		UserID:                   request.UserID,
		MovieID:                  request.MovieID,
		ProducerID:               request.ProducerID,
		Amount:                   request.Amount,
		Currency:                 request.Currency,
		PaymentMethod:            request.PaymentMethod,
		UserName:                 request.UserName,
		MovieTitle:               request.MovieTitle,
		ProducerName:             request.ProducerName,
		ExpectedReturnPercentage: request.ExpectedReturnPercentage,
	}

	investment, err := h.investments.Create(c.UserContext(), cmd)
	if err != nil {
		h.logger.Error("Failed to create investment",
			zap.Error(err),
			zap.Int64("userID", request.UserID),
			zap.Int64("movieID", request.MovieID))
		return err
	}

	h.logger.Info("Investment created",
		zap.String("transactionID", investment.TransactionID),
		zap.Int64("userID", investment.UserID),
		zap.Int64("movieID", investment.MovieID))

	return c.Status(fiber.StatusCreated).JSON(contract.Success(constants.MsgInvestmentCreated, investment))
}

func (h *Handler) Confirm(c *fiber.Ctx) error {
	transactionID := c.Params("transactionId")

	investment, err := h.investments.Confirm(c.UserContext(), transactionID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Success(constants.MsgInvestmentConfirmed, investment))
}

func (h *Handler) Cancel(c *fiber.Ctx) error {
	cmd := service.CancelInvestmentCommand{
		TransactionID: c.Params("transactionId"),
		Reason:        c.Query("reason"),
	}

	investment, err := h.investments.Cancel(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(contract.Success(constants.MsgInvestmentCancelled, investment))
}

func (h *Handler) GetInvestment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	investment, err := h.investments.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(contract.Success("", investment))
}

func (h *Handler) GetTransaction(c *fiber.Ctx) error {
	tx, err := h.investments.GetTransaction(c.UserContext(), c.Params("transactionId"))
	if err != nil {
		return err
	}

	return c.JSON(contract.Success("", tx))
}

func (h *Handler) UserInvestments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	investments, err := h.investments.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	total, err := h.investments.TotalConfirmedByUser(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Success("", UserInvestmentsResponse{
		UserID:      userID,
		Investments: investments,
		Count:       len(investments),
		TotalAmount: total,
	}))
}

func (h *Handler) UserMovies(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	movieIDs, err := h.investments.MovieIDsByUser(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Success("", UserMoviesResponse{UserID: userID, MovieIDs: movieIDs, Count: len(movieIDs)}))
}

func (h *Handler) MovieInvestments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	movieID, err := paramID(c, "movieId")
	if err != nil {
		return err
	}

	investments, err := h.investments.ListByMovie(ctx, movieID)
	if err != nil {
		return err
	}

	total, err := h.investments.TotalConfirmedByMovie(ctx, movieID)
	if err != nil {
		return err
	}

	investors, err := h.investments.CountInvestorsByMovie(ctx, movieID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Success("", MovieInvestmentsResponse{
		MovieID:       movieID,
		Investments:   investments,
		Count:         len(investments),
		TotalAmount:   total,
		InvestorCount: investors,
	}))
}

func (h *Handler) ConfirmedMovieInvestments(c *fiber.Ctx) error {
	movieID, err := paramID(c, "movieId")
	if err != nil {
		return err
	}

	return h.investmentList(c, func() ([]service.Investment, error) {
		return h.investments.ListConfirmedByMovie(c.UserContext(), movieID)
	})
}

func (h *Handler) ProducerInvestments(c *fiber.Ctx) error {
	producerID, err := paramID(c, "producerId")
	if err != nil {
		return err
	}

	return h.investmentList(c, func() ([]service.Investment, error) {
		return h.investments.ListByProducer(c.UserContext(), producerID)
	})
}

func (h *Handler) ProducerInvestors(c *fiber.Ctx) error {
	ctx := c.UserContext()

	producerID, err := paramID(c, "producerId")
	if err != nil {
		return err
	}

	total, err := h.investments.TotalConfirmedByProducer(ctx, producerID)
	if err != nil {
		return err
	}

	investors, err := h.investments.CountUniqueInvestorsByProducer(ctx, producerID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Success("", ProducerInvestorsResponse{
		ProducerID:            producerID,
		TotalInvestmentAmount: total,
		UniqueInvestorCount:   investors,
	}))
}

func (h *Handler) UnpaidReturns(c *fiber.Ctx) error {
	return h.investmentList(c, func() ([]service.Investment, error) {
		return h.investments.ListUnpaidReturns(c.UserContext())
	})
}

func (h *Handler) UnpaidMovieReturns(c *fiber.Ctx) error {
	movieID, err := paramID(c, "movieId")
	if err != nil {
		return err
	}

	return h.investmentList(c, func() ([]service.Investment, error) {
		return h.investments.ListUnpaidReturnsByMovie(c.UserContext(), movieID)
	})
}

func (h *Handler) MovieInvestors(c *fiber.Ctx) error {
	producerID, err := paramID(c, "producerId")
	if err != nil {
		return err
	}

	movieID, err := paramID(c, "movieId")
	if err != nil {
		return err
	}

	resp, err := h.investments.MovieInvestors(c.UserContext(), producerID, movieID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Success("", resp))
}

// ProcessReturns runs the allocator inline, or enqueues the command on
// funding.returns when async=true.
func (h *Handler) ProcessReturns(c *fiber.Ctx) error {
	movieID, err := paramID(c, "movieId")
	if err != nil {
		return err
	}

	revenue, err := decimal.NewFromString(c.Query("total_revenue"))
	if err != nil {
		return service.NewServiceError(constants.ErrCodeValidationFailed,
			fmt.Errorf("invalid total_revenue %q: %w", c.Query("total_revenue"), err))
	}

	cmd := service.ProcessReturnsCommand{MovieID: movieID, TotalRevenue: revenue}

	if c.QueryBool("async") {
		return h.enqueueReturns(c, cmd)
	}

	resp, err := h.returns.ProcessReturns(c.UserContext(), cmd)
	if err != nil {
		h.logger.Error("Failed to process returns",
			zap.Error(err),
			zap.Int64("movieID", movieID),
			zap.Stringer("totalRevenue", revenue))
		return err
	}

	return c.JSON(contract.Success(constants.MsgReturnsProcessed, resp))
}

func (h *Handler) enqueueReturns(c *fiber.Ctx, cmd service.ProcessReturnsCommand) error {
	if !cmd.TotalRevenue.IsPositive() {
		return service.NewServiceError(constants.ErrCodeInvalidAmount,
			fmt.Errorf("%w: total revenue must be positive, got %s", service.ErrInvalidAmount, cmd.TotalRevenue))
	}

	body, err := json.Marshal(cmd)
	if err != nil {
		return service.NewServiceError(constants.ErrCodeInternalError, err)
	}

	if err := h.publisher.Publish(c.UserContext(), "", constants.QueueReturns, body); err != nil {
		h.logger.Error("Failed to queue returns",
			zap.Error(err),
			zap.Int64("movieID", cmd.MovieID))
		return service.NewServiceError(constants.ErrCodeQueueUnavailable, err)
	}

	h.logger.Info("Returns queued",
		zap.Int64("movieID", cmd.MovieID),
		zap.Stringer("totalRevenue", cmd.TotalRevenue))

	return c.Status(fiber.StatusAccepted).JSON(contract.Success(constants.MsgReturnsQueued, QueuedReturnsResponse{
		MovieID:      cmd.MovieID,
		TotalRevenue: cmd.TotalRevenue,
		Queue:        constants.QueueReturns,
	}))
}

func (h *Handler) UpdateCollection(c *fiber.Ctx) error {
	producerID, err := paramID(c, "producerId")
	if err != nil {
		return err
	}

	movieID, err := paramID(c, "movieId")
	if err != nil {
		return err
	}

	var request CollectionRequest

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		return c.JSON(responseError)
	}

	collectionDate := time.Now()
	if request.CollectionDate != "" {
		collectionDate, err = time.Parse(collectionDateLayout, request.CollectionDate)
		if err != nil {
			return service.NewServiceError(constants.ErrCodeValidationFailed, err)
		}
	}

	autoDistribute := true
	if request.AutoDistributeReturns != nil {
		autoDistribute = *request.AutoDistributeReturns
	}

	report, err := h.returns.UpdateCollectionAndDistribute(c.UserContext(), service.UpdateCollectionCommand{
		ProducerID:       producerID,
		MovieID:          movieID,
		CollectionAmount: request.CollectionAmount,
		CollectionDate:   collectionDate,
		Notes:            request.Notes,
		AutoDistribute:   autoDistribute,
	})
	if err != nil {
		h.logger.Error("Failed to update collection",
			zap.Error(err),
			zap.Int64("producerID", producerID),
			zap.Int64("movieID", movieID))
		return err
	}

	return c.JSON(contract.Success(report.Message, report))
}

func (h *Handler) ProducerReturns(c *fiber.Ctx) error {
	producerID, err := paramID(c, "producerId")
	if err != nil {
		return err
	}

	movieID, err := paramID(c, "movieId")
	if err != nil {
		return err
	}

	var request ProducerReturnsRequest

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		return c.JSON(responseError)
	}

	resp, err := h.returns.ProcessReturnsForProducer(c.UserContext(), service.ProducerReturnsCommand{
		ProducerID:   producerID,
		MovieID:      movieID,
		TotalRevenue: request.TotalRevenue,
		Notes:        request.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(contract.Success(constants.MsgReturnsProcessed, resp))
}

func (h *Handler) BulkReturns(c *fiber.Ctx) error {
	producerID, err := paramID(c, "producerId")
	if err != nil {
		return err
	}

	var request BulkReturnsRequest

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		return c.JSON(responseError)
	}

	revenues := make(map[int64]decimal.Decimal, len(request.Revenues))
	for key, revenue := range request.Revenues {
		movieID, err := strconv.ParseInt(strings.TrimPrefix(key, bulkMovieKeyPrefix), 10, 64)
		if err != nil {
			return service.NewServiceError(constants.ErrCodeValidationFailed,
				fmt.Errorf("invalid movie key %q: %w", key, err))
		}
		revenues[movieID] = revenue
	}

	resp, err := h.returns.ProcessReturnsForAllProducerMovies(c.UserContext(), service.BulkReturnsCommand{
		ProducerID: producerID,
		Revenues:   revenues,
	})
	if err != nil {
		return err
	}

	return c.JSON(contract.Success(constants.MsgReturnsProcessed, resp))
}

func (h *Handler) ReturnSummary(c *fiber.Ctx) error {
	producerID, err := paramID(c, "producerId")
	if err != nil {
		return err
	}

	summary, err := h.returns.GetReturnSummaryForProducer(c.UserContext(), producerID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Success("", summary))
}

func (h *Handler) investmentList(c *fiber.Ctx, list func() ([]service.Investment, error)) error {
	investments, err := list()
	if err != nil {
		return err
	}

	return c.JSON(contract.Success("", InvestmentsResponse{Investments: investments, Count: len(investments)}))
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, service.NewServiceError(constants.ErrCodeInvalidPathParam,
			fmt.Errorf("invalid %s %q", name, raw))
	}

	return id, nil
}
