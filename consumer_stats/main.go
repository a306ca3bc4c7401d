package main

import (
	"encoding/json"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/streadway/amqp"
	"github.com/xor-shift/randserver/common"
	"log"
	"math"
	"net/http"
	"os"
	"sync"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("loading dotenv failed: %s", err)
	}
}

type runningStats struct {
	Count uint    `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func (s *runningStats) observe(v float64) {
	if s.Count == 0 {
		s.Min = v
		s.Max = v
	} else {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}

	s.Count++
	s.Mean += (v - s.Mean) / float64(s.Count)
}

func main() {
	var err error

	var consumer *common.AMQPConsumer
	var app *iris.Application

	var statsMutex sync.Mutex
	stats := map[common.DrawKind]*runningStats{}

	observeBatch := func(batch *common.SampleBatch) {
		statsMutex.Lock()
		defer statsMutex.Unlock()

		kindStats, ok := stats[batch.Request.Kind]
		if !ok {
			kindStats = &runningStats{}
			stats[batch.Request.Kind] = kindStats
		}

		for _, v := range batch.RawSamples {
			kindStats.observe(float64(v))
		}

		for _, v := range batch.RealSamples {
			kindStats.observe(v)
		}

		for _, v := range batch.IntSamples {
			kindStats.observe(float64(v))
		}
	}

	if consumer, err = common.NewAMQPConsumer(
		"consumer_stats_queue",
		"consumer_stats_consumer",
		func(delivery amqp.Delivery) error {
			amqpBatch, err := common.ParseAMQPBatch(&delivery)
			if err != nil {
				log.Printf("error decoding a batch with gob: %s", err)
				return err
			}

			batch := amqpBatch.Batch

			log.Printf("session %d batch %d: %d %s samples",
				amqpBatch.SessionID,
				batch.SequenceID,
				batch.Request.Count,
				batch.Request.Kind)

			observeBatch(&batch)

			return nil
		}); err != nil {
		log.Fatalln(err)
	}

	if err = consumer.Start(); err != nil {
		log.Fatalln(err)
	}

	app = iris.New()

	app.Get("/test", func(ctx iris.Context) {
		_, _ = ctx.Text("OK")
	})

	app.Get("/stats", func(ctx iris.Context) {
		statsMutex.Lock()
		snapshot := map[common.DrawKind]runningStats{}
		for k, v := range stats {
			snapshot[k] = *v
		}
		statsMutex.Unlock()

		var jsonData []byte
		jsonData, err = json.Marshal(snapshot)

		if err != nil {
			ctx.StatusCode(http.StatusInternalServerError)
			_, _ = ctx.Text("internal error: %s", err)
			return
		}

		ctx.ContentType("application/json")
		_, _ = ctx.Text(string(jsonData))
	})

	if err = app.Listen(fmt.Sprintf(":%s", os.Getenv("CONSUMER_STATS_PORT"))); err != nil {
		log.Fatalln(err)
	}
}
