// Package worker despacha trabajos posteriores al commit (correos de confirmación)
// a través de una lista de Redis consumida por un pool de goroutines.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/morvic-api/internal/application/dto"
	"github.com/jhoicas/morvic-api/internal/application/ports"
)

// QueueEmail lista de Redis con los correos pendientes.
const QueueEmail = "morvic:jobs:email"

const jobTypeOrderConfirmation = "order_confirmation"

// Job sobre genérico de la cola.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Processor procesa el payload de un tipo de trabajo.
type Processor interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

var _ ports.OrderNotifier = (*RedisDispatcher)(nil)

// RedisDispatcher encola trabajos con LPUSH; el pool los consume con BRPOP.
type RedisDispatcher struct {
	rdb *redis.Client
}

// NewRedisDispatcher construye el despachador.
func NewRedisDispatcher(rdb *redis.Client) *RedisDispatcher {
	return &RedisDispatcher{rdb: rdb}
}

// NotifyOrderCreated encola el correo de confirmación del pedido.
func (d *RedisDispatcher) NotifyOrderCreated(ctx context.Context, job dto.OrderConfirmationJob) error {
	encoded, err := encodeJob(jobTypeOrderConfirmation, job)
	if err != nil {
		return err
	}
	if err := d.rdb.LPush(ctx, QueueEmail, encoded).Err(); err != nil {
		return fmt.Errorf("worker: encolar %s: %w", jobTypeOrderConfirmation, err)
	}
	return nil
}

func encodeJob(jobType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("worker: serializar payload: %w", err)
	}
	return json.Marshal(Job{Type: jobType, Payload: data})
}

// Pool consume QueueEmail con n goroutines hasta que se cancela el contexto.
type Pool struct {
	rdb        *redis.Client
	processors map[string]Processor
	log        zerolog.Logger
	popTimeout time.Duration
	wg         sync.WaitGroup
}

// NewPool construye el pool con el procesador de correos registrado.
func NewPool(rdb *redis.Client, email Processor, log zerolog.Logger) *Pool {
	return &Pool{
		rdb:        rdb,
		processors: map[string]Processor{jobTypeOrderConfirmation: email},
		log:        log,
		popTimeout: 5 * time.Second,
	}
}

// Start lanza numWorkers goroutines. Cada una bloquea en BRPOP, sin consumo de CPU en reposo.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	p.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	p.log.Info().Int("workers", numWorkers).Msg("pool de workers iniciado")
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			p.log.Info().Int("worker", id).Msg("worker detenido")
			return
		default:
		}
		// Espera hasta popTimeout y vuelve a revisar ctx.
		result, err := p.rdb.BRPop(ctx, p.popTimeout, QueueEmail).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				p.log.Warn().Err(err).Int("worker", id).Msg("brpop falló")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.Handle(ctx, result[0], []byte(result[1]))
	}
}

// Wait bloquea hasta que todos los workers salen (tras cancelar el ctx de Start).
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Handle decodifica el sobre y delega al procesador del tipo. Los fallos solo se registran.
func (p *Pool) Handle(ctx context.Context, queue string, raw []byte) {
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		p.log.Error().Err(err).Str("queue", queue).Msg("trabajo ilegible")
		return
	}
	proc, ok := p.processors[job.Type]
	if !ok {
		p.log.Warn().Str("type", job.Type).Str("queue", queue).Msg("tipo de trabajo desconocido")
		return
	}
	if err := proc.Process(ctx, job.Payload); err != nil {
		p.log.Error().Err(err).Str("type", job.Type).Msg("trabajo fallido")
	}
}
