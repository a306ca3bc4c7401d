package main

import (
	"encoding/json"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/xor-shift/randserver/common"
	"github.com/xor-shift/randserver/rng"
	"github.com/xor-shift/randserver/service"
	"github.com/xor-shift/randserver/util"
	"log"
	"net/http"
	"os"
	"strconv"
)

var (
	app      *iris.Application
	streamer *service.Streamer
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("loading dotenv failed: %s", err)
	}

	app = iris.New()

	variant := rng.VariantStarStar
	if os.Getenv("VARIANT") == "plus" {
		variant = rng.VariantPlus
	}

	streamer, err = service.NewStreamerFromEnv(variant)
	if err != nil {
		log.Fatalf("creating the streamer failed: %s", err)
	}
}

func sessionIDFromPath(ctx iris.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params().Get("id"), 10, 64)
	if err != nil {
		return 0, err
	}

	return uint(id), nil
}

func replyJSON(ctx iris.Context, v interface{}) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		_, _ = ctx.Text("internal error: %s", err)
		return
	}

	ctx.ContentType("application/json")
	_, _ = ctx.Text(string(jsonData))
}

func main() {
	streamer.Start(1)

	app.Post("/session", func(ctx iris.Context) {
		app.Logger().Printf("new session request from %s", ctx.RemoteAddr())

		id, stateHex, err := streamer.NewSession()
		if err != nil {
			app.Logger().Warnf("/session error: %s", err)
			ctx.StatusCode(http.StatusInternalServerError)
			return
		}

		app.Logger().Printf("started session %d at state %s", id, stateHex)

		replyJSON(ctx, struct {
			SessionID uint   `json:"sessionId"`
			State     string `json:"state"`
		}{id, stateHex})
	})

	app.Post("/block", func(ctx iris.Context) {
		streamer.NewBlock()
	})

	app.Get("/session/{id}/u64", func(ctx iris.Context) {
		id, err := sessionIDFromPath(ctx)
		if err != nil {
			ctx.StatusCode(http.StatusBadRequest)
			return
		}

		v, err := streamer.NextRaw(id)
		if err != nil {
			ctx.StatusCode(http.StatusNotFound)
			return
		}

		replyJSON(ctx, struct {
			Value uint64 `json:"value"`
		}{v})
	})

	app.Get("/master/state", func(ctx iris.Context) {
		replyJSON(ctx, struct {
			State string `json:"state"`
		}{streamer.MasterState()})
	})

	app.Get("/session/{id}", func(ctx iris.Context) {
		id, err := sessionIDFromPath(ctx)
		if err != nil {
			ctx.StatusCode(http.StatusBadRequest)
			return
		}

		seedHex, current, err := streamer.SessionInfo(id)
		if err != nil {
			ctx.StatusCode(http.StatusNotFound)
			return
		}

		replyJSON(ctx, struct {
			SessionID uint   `json:"sessionId"`
			Seed      string `json:"seed"`
			State     string `json:"state"`
		}{id, seedHex, current})
	})

	app.Get("/session/{id}/state", func(ctx iris.Context) {
		id, err := sessionIDFromPath(ctx)
		if err != nil {
			ctx.StatusCode(http.StatusBadRequest)
			return
		}

		stateHex, err := streamer.SessionState(id)
		if err != nil {
			ctx.StatusCode(http.StatusNotFound)
			return
		}

		replyJSON(ctx, struct {
			State string `json:"state"`
		}{stateHex})
	})

	app.Get("/session/{id}/bits", func(ctx iris.Context) {
		id, err := sessionIDFromPath(ctx)
		if err != nil {
			ctx.StatusCode(http.StatusBadRequest)
			return
		}

		words, err := streamer.SessionStateWords(id)
		if err != nil {
			ctx.StatusCode(http.StatusNotFound)
			return
		}

		bits := make([]string, len(words))
		for i, w := range words {
			bits[i] = util.BitString(w)
		}

		replyJSON(ctx, struct {
			Bits []string `json:"bits"`
		}{bits})
	})

	app.Post("/session/{id}/draw", func(ctx iris.Context) {
		id, err := sessionIDFromPath(ctx)
		if err != nil {
			ctx.StatusCode(http.StatusBadRequest)
			return
		}

		body, err := ctx.GetBody()
		if err != nil {
			app.Logger().Printf("/session/x/draw error (body): %s", err)
			ctx.StatusCode(http.StatusBadRequest)
			return
		}

		request, err := common.ParseDrawRequest(body)
		if err != nil {
			app.Logger().Printf("/session/x/draw error (ParseDrawRequest): %s", err)
			ctx.StatusCode(http.StatusBadRequest)
			_, _ = ctx.Text("bad request: %s", err)
			return
		}

		batch, err := streamer.Draw(id, request)
		if err != nil {
			app.Logger().Printf("/session/x/draw error (Draw): %s", err)
			ctx.StatusCode(http.StatusBadRequest)
			_, _ = ctx.Text("draw failed: %s", err)
			return
		}

		replyJSON(ctx, batch)
	})

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	if err := app.Listen(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatalln(err)
	}
}
