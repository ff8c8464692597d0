package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gustavolemesleitebarbosa/pictionary/config"
	"github.com/gustavolemesleitebarbosa/pictionary/game"
	"github.com/gustavolemesleitebarbosa/pictionary/migrations"
	"github.com/gustavolemesleitebarbosa/pictionary/storage"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	allowAll := slices.Contains(allowedOrigins, "*")

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if allowAll || origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}
	if allowAll {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))

	return r
}

func main() {

	// logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Word source: Postgres when configured, built-in list otherwise.
	var words game.RandomWordGenerator = game.NewWordList()
	if cfg.PostgresURL != "" {
		migrations.Migrate(cfg.PostgresURL)
		wordSource, err := storage.NewPostgresWordSource(context.Background(), cfg.PostgresURL)
		if err != nil {
			log.Fatal(err)
		}
		defer wordSource.Close()
		words = wordSource
	}

	codeGen := game.NewRoomCodeGenerator()
	tickerGen := game.NewTickerGen()

	lobby := game.NewLobby(&codeGen, &tickerGen)

	lobbyStarted := make(chan struct{})
	go lobby.LobbyActor(lobbyStarted)
	<-lobbyStarted

	gameHandler := game.NewGameHandler(lobby, words, game.NewSystemClock())

	r := CreateServer(cfg.AllowedOrigins)
	r.POST("/rooms", gameHandler.CreateRoomHandler)
	r.GET("/rooms/:code", gameHandler.GetRoomHandler)
	r.GET("/ws", gameHandler.WebsocketHandler)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
