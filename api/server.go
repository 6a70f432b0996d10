package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/bitmark-inc/helpity-api/dispatch"
	"github.com/bitmark-inc/helpity-api/logmodule"
	"github.com/bitmark-inc/helpity-api/store"
)

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	// Stores
	mongoStore   store.MongoStore
	accountStore store.AccountStore

	// help request flows
	orchestrator *dispatch.Orchestrator

	// prometheus exposition of the service metrics
	metricsHandler http.Handler
}

// NewServer new instance of server
func NewServer(
	mongoStore store.MongoStore,
	accountStore store.AccountStore,
	orchestrator *dispatch.Orchestrator,
	metricsHandler http.Handler) *Server {
	return &Server{
		mongoStore:     mongoStore,
		accountStore:   accountStore,
		orchestrator:   orchestrator,
		metricsHandler: metricsHandler,
	}
}

// Run to run the server
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRouter(),
	}

	return s.server.ListenAndServe()
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))
	r.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowAllOrigins:  true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", s.welcome)

	apiRoute := r.Group("/api")
	apiRoute.Use(logmodule.Ginrus("API"))
	apiRoute.GET("/information", s.information)

	userRoute := apiRoute.Group("/users")
	{
		userRoute.POST("", s.accountRegister)
		userRoute.GET("/:userID", s.accountDetail)
		userRoute.PATCH("/:userID/push-token", s.accountUpdatePushToken)
	}

	helpRoute := apiRoute.Group("/help-requests")
	{
		helpRoute.POST("", s.askForHelp)
		helpRoute.GET("", s.listHelps)
		helpRoute.GET("/:requestID", s.helpDetail)
	}

	apiRoute.POST("/volunteer-response", s.answerHelp)
	apiRoute.GET("/community-wall", s.communityWall)

	metricRoute := r.Group("/metrics")
	metricRoute.Use(logmodule.Ginrus("Metric"))
	if s.metricsHandler != nil {
		metricRoute.GET("", gin.WrapH(s.metricsHandler))
	}

	r.GET("/healthz", s.healthz)

	return r
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Helpity API"})
}

func (s *Server) healthz(c *gin.Context) {
	for _, p := range []store.Pinger{s.mongoStore, s.accountStore} {
		if err := p.Ping(); err != nil {
			log.WithError(err).Error("health check")
			abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"version": viper.GetString("server.version"),
	})
}

func (s *Server) information(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"information": map[string]interface{}{
			"server": map[string]interface{}{
				"version": viper.GetString("server.version"),
			},
			"android":        viper.GetStringMap("clients.android"),
			"ios":            viper.GetStringMap("clients.ios"),
			"system_version": "Helpity 0.1",
		},
	})
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}

// abortWithError responds with the error code matching err and the message
// of err itself. Storage failures are reported to sentry.
func abortWithError(c *gin.Context, err error) {
	code, obj := errorResponse(err)
	if errors.Is(err, store.ErrPersistence) {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
	}
	abortWithEncoding(c, code, obj, err)
}
