// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/curioswitch/go-curiostack/server"
	"github.com/curioswitch/go-usegcp/middleware/firebaseauth"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"

	"github.com/curioswitch/fitchat/server/internal/config"
	"github.com/curioswitch/fitchat/server/internal/handler/answer"
	"github.com/curioswitch/fitchat/server/internal/handler/checkroute"
	"github.com/curioswitch/fitchat/server/internal/handler/getmessages"
	"github.com/curioswitch/fitchat/server/internal/handler/getplan"
	"github.com/curioswitch/fitchat/server/internal/handler/getprofile"
	"github.com/curioswitch/fitchat/server/internal/handler/habitstats"
	"github.com/curioswitch/fitchat/server/internal/handler/startonboarding"
	"github.com/curioswitch/fitchat/server/internal/handler/trackhabit"
	"github.com/curioswitch/fitchat/server/internal/handler/updateprofile"
	"github.com/curioswitch/fitchat/server/internal/handler/welcome"
	"github.com/curioswitch/fitchat/server/internal/httpapi"
	"github.com/curioswitch/fitchat/server/internal/i18n"
	"github.com/curioswitch/fitchat/server/internal/onboarding"
	"github.com/curioswitch/fitchat/server/internal/planner"
	"github.com/curioswitch/fitchat/server/internal/store"
)

//go:embed conf/*.yaml
var confFiles embed.FS

func main() {
	conf, _ := fs.Sub(confFiles, "conf")
	os.Exit(server.Main(&config.Config{}, conf, setupServer))
}

func setupServer(ctx context.Context, conf *config.Config, s *server.Server) error {
	mux := server.Mux(s)

	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: conf.Google.Project})
	if err != nil {
		return fmt.Errorf("main: create firebase app: %w", err)
	}

	fbAuth, err := fbApp.Auth(ctx)
	if err != nil {
		return fmt.Errorf("main: create firebase auth client: %w", err)
	}

	firestore, err := fbApp.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("main: create firestore client: %w", err)
	}
	defer func() {
		if err := firestore.Close(); err != nil {
			slog.ErrorContext(ctx, "main: close firestore client", "error", err)
		}
	}()

	storage, err := storage.NewGRPCClient(ctx)
	if err != nil {
		return fmt.Errorf("main: create storage client: %w", err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			slog.ErrorContext(ctx, "main: close storage client", "error", err)
		}
	}()
	publicBucket := conf.Google.Project + "-public"

	genAI, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		Project: conf.Google.Project,
	})
	if err != nil {
		return fmt.Errorf("main: creating genai client: %w", err)
	}

	oai := openai.NewClient()

	var gen planner.Generator
	switch conf.Planner.Provider {
	case "openai":
		gen = planner.NewOpenAI(&oai, conf.Planner.Model)
	default:
		gen = planner.NewGenAI(genAI, conf.Planner.Model)
	}

	st := store.NewFirestore(firestore)

	seq := onboarding.NewSequencer(st, st, st, gen,
		onboarding.WithAdvanceDelay(time.Duration(conf.Onboarding.AutoAdvanceDelayMillis)*time.Millisecond))
	manager := onboarding.NewManager(st, seq)
	defer manager.Close()

	fbMW := firebaseauth.NewMiddleware(fbAuth)
	mux.Use(middleware.Maybe(fbMW, func(r *http.Request) bool {
		switch {
		case strings.HasPrefix(r.URL.Path, "/internal/"):
			return false
		case r.URL.Path == "/api/route/check":
			// Route checks are evaluated for signed-out sessions too, the
			// gate's own rules send them to sign-in.
			return r.Header.Get("Authorization") != ""
		default:
			return true
		}
	}))

	mux.Use(i18n.Middleware())

	mux.Post("/api/route/check", httpapi.Handler(checkroute.NewHandler(st).CheckRoute))
	mux.Get("/api/profile", httpapi.Handler(getprofile.NewHandler(st).GetProfile))
	mux.Post("/api/profile", httpapi.Handler(updateprofile.NewHandler(st, storage, publicBucket).UpdateProfile))
	mux.Post("/api/welcome/dismiss", httpapi.Handler(welcome.NewHandler(st).DismissWelcome))
	mux.Post("/api/onboarding/start", httpapi.Handler(startonboarding.NewHandler(manager).StartOnboarding))
	mux.Post("/api/onboarding/answer", httpapi.Handler(answer.NewHandler(st, st, seq).Answer))
	mux.Get("/api/chat/messages", httpapi.Handler(getmessages.NewHandler(st).GetMessages))
	mux.Get("/api/plan", httpapi.Handler(getplan.NewHandler(st).GetPlan))
	mux.Post("/api/habits/complete", httpapi.Handler(trackhabit.NewHandler(st).TrackHabit))
	mux.Post("/api/habits/stats", httpapi.Handler(habitstats.NewHandler(st).HabitStats))

	server.EnableDocsFirebaseAuth(s, "alpha.fitchat.curioswitch.org")

	if err := server.Start(ctx, s); err != nil {
		return fmt.Errorf("main: starting server: %w", err)
	}
	return nil
}
