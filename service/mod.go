package service

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"
	"github.com/go-sql-driver/mysql"
	amqp "github.com/streadway/amqp"
	"github.com/xor-shift/randserver/common"
	"github.com/xor-shift/randserver/rng"
	"github.com/xor-shift/randserver/util"
	"log"
	"os"
	"strconv"
	"sync"
	"time"
)

type session struct {
	id      uint
	seedHex string

	gen        *rng.Xoshiro256State
	sequenceID uint
	drawnCt    uint
}

type drawJob struct {
	sessionID uint
	request   common.DrawRequest

	reply chan drawResult
}

type drawResult struct {
	batch common.SampleBatch
	err   error
}

// Streamer owns a master xoshiro256 generator and hands out
// non-overlapping substreams of it as sessions. Every session is placed
// 2^128 calls apart via Jump128, so no two sessions can ever observe
// correlated output. Draws run on worker goroutines, each publishing
// fulfilled batches to the sample batch exchange.
type Streamer struct {
	db       *sql.DB
	amqpConn *amqp.Connection

	master *rng.Xoshiro256State
	// cursor trails the master by whole jump-blocks; cloning it and
	// jumping it forward allocates the next substream.
	cursor *rng.Xoshiro256State

	mutex    sync.Mutex
	sessions map[uint]*session

	workerWG     *sync.WaitGroup
	incomingJobs chan drawJob
}

// NewStreamer seeds the master generator explicitly. Use this in tests
// and anywhere reproducibility matters.
func NewStreamer(variant rng.Variant, masterSeed uint64) (*Streamer, error) {
	var err error

	master := rng.NewXoshiro256FromSeed(variant, masterSeed)

	streamer := &Streamer{
		db:       nil,
		amqpConn: nil,

		master: master,
		cursor: master.Clone(),

		sessions: map[uint]*session{},

		workerWG:     &sync.WaitGroup{},
		incomingJobs: make(chan drawJob, 128),
	}

	if streamer.amqpConn, err = amqp.Dial(os.Getenv("AMQP_URL")); err != nil {
		return nil, err
	}

	dbConfig := mysql.Config{
		User:                 os.Getenv("DB_USER"),
		Passwd:               os.Getenv("DB_PASSWORD"),
		Addr:                 os.Getenv("DB_ADDRESS"),
		DBName:               os.Getenv("DB_NAME"),
		Collation:            "utf8mb4_general_ci",
		Net:                  "tcp",
		AllowNativePasswords: true,
	}

	if streamer.db, err = sql.Open("mysql", dbConfig.FormatDSN()); err != nil {
		return nil, err
	}

	return streamer, nil
}

// NewStreamerFromEnv seeds from MASTER_SEED (hex) when set, falling
// back to wall-clock time.
func NewStreamerFromEnv(variant rng.Variant) (*Streamer, error) {
	seedText := os.Getenv("MASTER_SEED")
	if seedText == "" {
		return NewStreamer(variant, uint64(time.Now().UnixNano()))
	}

	seed, err := strconv.ParseUint(seedText, 16, 64)
	if err != nil {
		return nil, fmt.Errorf("bad MASTER_SEED \"%s\": %w", seedText, err)
	}

	return NewStreamer(variant, seed)
}

// NewSession allocates the next 2^128-call substream and records it in
// the sessions table. Returns the session id and the starting state as
// hex.
func (s *Streamer) NewSession() (uint, string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	gen := s.cursor.Clone()
	s.cursor.Jump128()

	seedHex := util.ArrayToString(gen.State[:])

	rows, err := s.db.Query(
		"insert into sessions (seed_state, variant) values (?, ?) returning session_id",
		seedHex, gen.Variant().String())

	if err != nil {
		return 0, "", err
	}

	defer rows.Close()

	if !rows.Next() {
		return 0, "", errors.New("no rows returned from sql insert query")
	}

	var id uint
	if err := rows.Scan(&id); err != nil {
		return 0, "", err
	}

	s.sessions[id] = &session{
		id:      id,
		seedHex: seedHex,
		gen:     gen,
	}

	return id, seedHex, nil
}

// NewBlock moves the allocation cursor 2^192 calls ahead, leaving a gap
// wide enough for another allocator (e.g. a second Streamer fed the
// same master seed) to subdivide with Jump128 on its own.
func (s *Streamer) NewBlock() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.cursor.Jump192()
}

// MasterState renders the state the master generator was seeded to.
// Handing this out is safe in the same sense the generator itself is:
// reproducible, not secret.
func (s *Streamer) MasterState() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.master.String()
}

// SessionInfo returns the starting and current state of a session.
func (s *Streamer) SessionInfo(id uint) (seedHex string, current string, err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return "", "", fmt.Errorf("no such session: %d", id)
	}

	return sess.seedHex, sess.gen.String(), nil
}

func (s *Streamer) SessionState(id uint) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return "", fmt.Errorf("no such session: %d", id)
	}

	return sess.gen.String(), nil
}

// SessionStateWords returns the raw state vector of a session, for
// inspection endpoints.
func (s *Streamer) SessionStateWords(id uint) ([4]uint64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return [4]uint64{}, fmt.Errorf("no such session: %d", id)
	}

	return sess.gen.State, nil
}

// NextRaw performs a single raw draw for a session without going
// through the worker pool.
func (s *Streamer) NextRaw(id uint) (uint64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return 0, fmt.Errorf("no such session: %d", id)
	}

	sess.drawnCt++

	return sess.gen.Next(), nil
}

// Draw queues a draw request and blocks until a worker has fulfilled
// and published it.
func (s *Streamer) Draw(sessionID uint, request common.DrawRequest) (common.SampleBatch, error) {
	reply := make(chan drawResult, 1)

	s.incomingJobs <- drawJob{
		sessionID: sessionID,
		request:   request,
		reply:     reply,
	}

	result := <-reply

	return result.batch, result.err
}

// Start starts a certain number of draw workers. Batches from different
// sessions may be published out of order relative to each other when
// `numWorkers` is greater than 1; batches of one session never are.
func (s *Streamer) Start(numWorkers uint) {
	s.workerWG.Add(int(numWorkers))

	for i := uint(0); i < numWorkers; i++ {
		go s.task()
	}
}

func (s *Streamer) Stop() {
	close(s.incomingJobs)
	s.workerWG.Wait()
}

func (s *Streamer) executeDraw(job *drawJob) (common.SampleBatch, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sess, ok := s.sessions[job.sessionID]
	if !ok {
		return common.SampleBatch{}, fmt.Errorf("no such session: %d", job.sessionID)
	}

	batch := common.SampleBatch{
		SequenceID: sess.sequenceID,
		Timestamp:  time.Now().In(time.UTC).Unix(),
		Request:    job.request,
	}

	count := int(job.request.Count)

	switch job.request.Kind {
	case common.DrawRaw:
		batch.RawSamples = make([]uint64, count)
		for i := 0; i < count; i++ {
			batch.RawSamples[i] = sess.gen.Next()
		}
	case common.DrawUniform:
		params := job.request.Params.(common.UniformParams)
		batch.RealSamples = make([]float64, count)
		for i := 0; i < count; i++ {
			v, err := sess.gen.Uniform(params.Low, params.High)
			if err != nil {
				return common.SampleBatch{}, err
			}
			batch.RealSamples[i] = v
		}
	case common.DrawExponential:
		params := job.request.Params.(common.ExponentialParams)
		batch.RealSamples = make([]float64, count)
		for i := 0; i < count; i++ {
			v, err := sess.gen.Exponential(params.Mean)
			if err != nil {
				return common.SampleBatch{}, err
			}
			batch.RealSamples[i] = v
		}
	case common.DrawGeometric:
		params := job.request.Params.(common.GeometricParams)
		batch.IntSamples = make([]int, count)
		for i := 0; i < count; i++ {
			v, err := sess.gen.Geometric(params.Success)
			if err != nil {
				return common.SampleBatch{}, err
			}
			batch.IntSamples[i] = v
		}
	default:
		return common.SampleBatch{}, fmt.Errorf("unknown draw kind \"%s\"", job.request.Kind)
	}

	sess.sequenceID++
	sess.drawnCt += job.request.Count

	return batch, nil
}

func (s *Streamer) publishBatch(batch common.SampleBatch, sessionID uint, amqpChan *amqp.Channel) error {
	var marshalledBatch bytes.Buffer
	batchEncoder := gob.NewEncoder(&marshalledBatch)
	if err := batchEncoder.Encode(common.AMQPBatch{
		SessionID: sessionID,
		Batch:     batch,
	}); err != nil {
		return err
	}

	return amqpChan.Publish(
		common.ExchangeName,
		"",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/octet-stream",
			Body:        marshalledBatch.Bytes(),
		})
}

func (s *Streamer) task() {
	defer s.workerWG.Done()

	var err error
	var amqpChan *amqp.Channel

	if amqpChan, err = s.amqpConn.Channel(); err != nil {
		log.Fatalf("Failed to establish an amqp channel: %s", err)
		return
	}

	defer amqpChan.Close()

	if err = amqpChan.ExchangeDeclare(
		common.ExchangeName, // name
		"fanout",            // type
		true,                // durable
		false,               // auto-deleted
		false,               // internal
		false,               // no-wait
		nil,                 // arguments
	); err != nil {
		log.Fatalf("Failed to declare an amqp exchange: %s", err)
		return
	}

	for job := range s.incomingJobs {
		batch, err := s.executeDraw(&job)

		if err == nil {
			if publishErr := s.publishBatch(batch, job.sessionID, amqpChan); publishErr != nil {
				log.Printf("Error while publishing a batch of %d samples: %s", job.request.Count, publishErr)
			}
		}

		job.reply <- drawResult{
			batch: batch,
			err:   err,
		}
	}
}
