package api

import (
	v1 "github.com/Behyna/cinefund/internal/api/v1"
	"github.com/Behyna/cinefund/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

const prefixV1 = "/api/v1/funding/"

func SetupRoutes(app *fiber.App, root *Handler, handler *v1.Handler, gatherer prometheus.Gatherer) {
	app.Get("/ping", root.Pong)
	app.Get("/health", root.Health)
	app.Get("/metrics", metrics.Handler(gatherer))

	app.Post(prefixV1+"invest", handler.Invest)
	app.Put(prefixV1+"confirm/:transactionId", handler.Confirm)
	app.Put(prefixV1+"cancel/:transactionId", handler.Cancel)
	app.Get(prefixV1+"investment/:id", handler.GetInvestment)
	app.Get(prefixV1+"transaction/:transactionId", handler.GetTransaction)

	app.Get(prefixV1+"user/:userId", handler.UserInvestments)
	app.Get(prefixV1+"user/:userId/movies", handler.UserMovies)
	app.Get(prefixV1+"movie/:movieId", handler.MovieInvestments)
	app.Get(prefixV1+"movie/:movieId/confirmed", handler.ConfirmedMovieInvestments)
	app.Get(prefixV1+"producer/:producerId", handler.ProducerInvestments)
	app.Get(prefixV1+"producer/:producerId/investors", handler.ProducerInvestors)

	app.Post(prefixV1+"returns/:movieId", handler.ProcessReturns)
	app.Get(prefixV1+"returns/unpaid", handler.UnpaidReturns)
	app.Get(prefixV1+"returns/unpaid/movie/:movieId", handler.UnpaidMovieReturns)

	app.Get(prefixV1+"producer/:producerId/movie/:movieId/investors", handler.MovieInvestors)
	app.Post(prefixV1+"producer/:producerId/movie/:movieId/collection", handler.UpdateCollection)
	app.Post(prefixV1+"producer/:producerId/movie/:movieId/returns", handler.ProducerReturns)
	app.Post(prefixV1+"producer/:producerId/returns/bulk", handler.BulkReturns)
	app.Get(prefixV1+"producer/:producerId/returns/summary", handler.ReturnSummary)
}
