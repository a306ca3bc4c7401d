package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/streadway/amqp"
	"github.com/xor-shift/randserver/common"
	"log"
	"os"
)

const (
	batchInsertQuery = "" +
		"INSERT INTO batches (session_id, sequence_id, reported_time" +
		", kind, params, samples, sample_count" +
		") VALUES (?, ?, FROM_UNIXTIME(?), ?, ?, ?, ?)"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("loading dotenv failed: %s", err)
	}
}

func main() {
	var err error

	var consumer *common.AMQPConsumer
	var db *sql.DB

	dbConfig := mysql.Config{
		User:                 os.Getenv("DB_USER"),
		Passwd:               os.Getenv("DB_PASSWORD"),
		Addr:                 os.Getenv("DB_ADDRESS"),
		DBName:               os.Getenv("DB_NAME"),
		Collation:            "utf8mb4_general_ci",
		Net:                  "tcp",
		AllowNativePasswords: true,
	}

	if db, err = sql.Open("mysql", dbConfig.FormatDSN()); err != nil {
		log.Fatalln(err)
	}

	processBatch := func(amqpBatch common.AMQPBatch) error {
		tx, err := db.BeginTx(context.TODO(), nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var stmt *sql.Stmt
		if stmt, err = tx.Prepare(batchInsertQuery); err != nil {
			return err
		}
		defer stmt.Close()

		batch := amqpBatch.Batch

		params, _ := json.Marshal(batch.Request.Params)

		var samples []byte
		switch {
		case batch.RawSamples != nil:
			samples, _ = json.Marshal(batch.RawSamples)
		case batch.RealSamples != nil:
			samples, _ = json.Marshal(batch.RealSamples)
		case batch.IntSamples != nil:
			samples, _ = json.Marshal(batch.IntSamples)
		}

		if _, err = stmt.Exec(
			amqpBatch.SessionID, batch.SequenceID, batch.Timestamp,
			string(batch.Request.Kind), string(params), string(samples), batch.Request.Count,
		); err != nil {
			return err
		}

		return tx.Commit()
	}

	if consumer, err = common.NewAMQPConsumer(
		"sample_batch_queue_db",
		"",
		func(delivery amqp.Delivery) error {
			amqpBatch, err := common.ParseAMQPBatch(&delivery)
			if err != nil {
				log.Printf("error decoding a batch with gob: %s", err)
				return err
			}

			if err := processBatch(amqpBatch); err != nil {
				log.Printf("failed writing a batch to the db: %s", err)
				return err
			}

			return nil
		}); err != nil {
		log.Fatalln(err)
	}

	if err = consumer.Start(); err != nil {
		log.Fatalln(err)
	}

	consumer.Wait()
}
