package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/unidept/evoting/docs"
	v1 "github.com/unidept/evoting/internal/api/handler/v1"
	"github.com/unidept/evoting/internal/api/middleware"
	"github.com/unidept/evoting/internal/config"
	"github.com/unidept/evoting/internal/metrics"
	"github.com/unidept/evoting/internal/repository"
	"github.com/unidept/evoting/internal/repository/dao"
	"github.com/unidept/evoting/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	// VoterService is shared with the payment consumer.
	VoterService *service.VoterService
}

type handlers struct {
	auth     *v1.AuthHandler
	user     *v1.UserHandler
	voter    *v1.VoterHandler
	election *v1.ElectionHandler
	ballot   *v1.BallotHandler
	results  *v1.ResultsHandler
	admin    *v1.AdminHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(db))

	return s
}

func (s *Server) initHandlers(db *gorm.DB) handlers {
	clock := service.Clock(time.Now)

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	voterRepo := repository.NewVoterRepository(dao.NewVoterDAO(db))
	electionRepo := repository.NewElectionRepository(dao.NewElectionDAO(db))
	ballotRepo := repository.NewBallotRepository(dao.NewVoteDAO(db))

	userSvc := service.NewUserService(userRepo)
	s.VoterService = service.NewVoterService(voterRepo)
	electionSvc := service.NewElectionService(electionRepo, ballotRepo, clock)
	checker := service.NewEligibilityChecker(voterRepo, electionRepo, ballotRepo, clock)
	ballotSvc := service.NewBallotService(checker, electionRepo, ballotRepo, metrics.NewRecorder(), clock)
	resultsSvc := service.NewResultsService(electionRepo, ballotRepo)

	return handlers{
		auth:     v1.NewAuthHandler(s.Config.API, service.NewAuthService(userRepo)),
		user:     v1.NewUserHandler(userSvc),
		voter:    v1.NewVoterHandler(s.VoterService),
		election: v1.NewElectionHandler(electionSvc, checker),
		ballot:   v1.NewBallotHandler(ballotSvc),
		results:  v1.NewResultsHandler(resultsSvc, electionSvc),
		admin:    v1.NewAdminHandler(service.NewElectionAdminService(electionRepo, clock)),
	}
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.Logger())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", h.auth.HandleSignup)
		auth.POST("/auth/login", h.auth.HandleLogin)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.GET("/users/me", h.user.HandleGetMe)

		authenticated.POST("/voters/register", h.voter.HandleRegister)
		authenticated.GET("/voters/me", h.voter.HandleGetProfile)

		authenticated.GET("/elections", h.election.HandleListElections)
		authenticated.GET("/elections/:electionID", h.election.HandleGetElection)
		authenticated.GET("/elections/:electionID/eligibility", h.election.HandleEligibility)
		authenticated.POST("/elections/:electionID/ballot", h.ballot.HandleCastBallot)
		authenticated.POST("/candidates/:candidateID/vote", h.ballot.HandleCastVote)

		authenticated.GET("/elections/:electionID/results", h.results.HandleElectionResults)
		authenticated.GET("/positions/:positionID/tally", h.results.HandleTally)
	}

	admin := authenticated.Group("/admin", middleware.RequireStaff())
	{
		admin.POST("/voters/:userID/verify", h.voter.HandleVerify)
		admin.POST("/elections", h.admin.HandleCreateElection)
		admin.POST("/elections/:electionID/positions", h.admin.HandleCreatePosition)
		admin.POST("/elections/:electionID/close", h.election.HandleCloseElection)
		admin.POST("/positions/:positionID/candidates", h.admin.HandleCreateCandidate)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	if s.Config.Metrics.Enabled {
		metrics.Register()
		s.Router.GET(s.Config.Metrics.Path, metrics.Handler())
	}

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "University e-voting API"
	docs.SwaggerInfo.Description = "Voter registration, ballots and results for departmental elections."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
