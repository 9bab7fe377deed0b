package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"relmap/internal/config"
	"relmap/internal/handlers"
	"relmap/internal/logger"
	"relmap/internal/middlewares"
	"relmap/internal/repositories"
	"relmap/internal/routes"
	"relmap/internal/services"
)

// Stores are the persistence dependencies of the API.
type Stores struct {
	Companies     services.CompanyStore
	Relationships services.RelationshipStore
	Schema        services.SchemaStore
}

// PostgresStores backs every store with the pgx repositories.
func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Companies:     repositories.NewCompanyRepository(pool),
		Relationships: repositories.NewRelationshipRepository(pool),
		Schema:        repositories.NewSchemaRepository(pool),
	}
}

// NewRouter wires services, handlers and routes onto a gin engine.
func NewRouter(cfg config.Config, log logger.LoggerI, stores Stores) *gin.Engine {
	// Dependency injection
	companyService := services.NewCompanyService(stores.Companies, log)
	relationshipService := services.NewRelationshipService(stores.Relationships, stores.Schema, log)
	schemaService := services.NewSchemaService(stores.Schema, stores.Relationships, log)

	companyHandler := handlers.NewCompanyHandler(companyService, log)
	schemaHandler := handlers.NewSchemaHandler(schemaService, log)
	relationshipHandler := handlers.NewRelationshipHandler(relationshipService, log)

	router := gin.New()
	router.Use(gin.Recovery(), middlewares.RequestID, middlewares.AccessLog(log))
	router.Use(cors.New(corsConfig(cfg)))

	routes.RegisterRoutes(router, companyService, companyHandler, schemaHandler, relationshipHandler)
	return router
}

func corsConfig(cfg config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middlewares.RequestIDHeader}
	c.ExposeHeaders = []string{middlewares.RequestIDHeader}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}

// NewServer builds the HTTP server for the API.
func NewServer(cfg config.Config, log logger.LoggerI, stores Stores) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      NewRouter(cfg, log, stores),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
