package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robonexus/communitybot/birthdays"
	"github.com/robonexus/communitybot/gateway"
	"github.com/robonexus/communitybot/internal/config"
	"github.com/robonexus/communitybot/onboarding"
	"github.com/robonexus/communitybot/onboarding/sessions"
	"github.com/robonexus/communitybot/profiles"
	"github.com/robonexus/communitybot/server"
	"github.com/robonexus/communitybot/settings"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("error running bot")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("bot stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	gw := gateway.New(c.GetGatewayURL(), c.GetBotToken())
	settingsRepo := settings.NewInMemoryRepo(c.GetWelcomeChannelID(), c.GetVerificationChannelID())
	profileRepo := profiles.NewInMemoryRepo()

	flow, err := onboarding.NewService(onboarding.Collaborators{
		Sessions:  sessions.NewInMemoryRepo(),
		Profiles:  profileRepo,
		Birthdays: birthdays.NewInMemoryRepo(),
		Roles:     gw,
		Messenger: gw,
		Settings:  settingsRepo,
	})
	if err != nil {
		return errors.Wrap(err, "building onboarding service")
	}

	srv, err := server.New(c, flow, profileRepo, settingsRepo)
	if err != nil {
		return errors.Wrap(err, "building http server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := gw.Run(ctx, flow); err != nil {
			log.Error().Err(err).Msg("gateway stopped")
		}
	}()

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	cancel()
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("http server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("http server failed")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server.Shutdown")
	}
	return nil
}

func setupLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
