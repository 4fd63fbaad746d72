package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"maravi/config"
	inventoryRepo "maravi/database/repository/inventory"
	orderRepo "maravi/database/repository/order"
	"maravi/models"

	"github.com/hibiken/asynq"
)

const TypeReservationRetry = "reservation:retry"

// ReservationRetryPayload identifies the order whose stock hold failed at
// checkout time.
type ReservationRetryPayload struct {
	OrderID string `json:"orderId"`
}

func redisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// Enqueuer schedules reservation retries. It satisfies the checkout
// service's ReservationScheduler interface.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer creates the asynq client used by the checkout path.
func NewEnqueuer() *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(redisClientOpt())}
}

// EnqueueReservationRetry schedules a background reservation attempt for an
// order whose synchronous reserve failed.
func (e *Enqueuer) EnqueueReservationRetry(orderID string) error {
	payload, err := json.Marshal(ReservationRetryPayload{OrderID: orderID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeReservationRetry, payload)
	_, err = e.client.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(8),
		asynq.ProcessIn(30*time.Second),
	)
	return err
}

// InitReservationWorker runs the async worker in background.
func InitReservationWorker(orders orderRepo.OrderRepository, inventory inventoryRepo.InventoryRepository) {
	srv := asynq.NewServer(
		redisClientOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReservationRetry, handleReservationRetry(orders, inventory))

	// Start async worker with retry logic
	go func() {
		log.Println("[ReservationWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReservationWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReservationWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReservationRetry(orders orderRepo.OrderRepository, inventory inventoryRepo.InventoryRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReservationRetryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReservationRetry] Invalid payload: %v", err)
			return err
		}

		order, err := orders.GetByID(p.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			log.Printf("[ReservationRetry] Order %s no longer exists, dropping task", p.OrderID)
			return nil
		}
		if order.Status == models.StatusCanceled {
			log.Printf("[ReservationRetry] Order %s was canceled, dropping task", p.OrderID)
			return nil
		}
		switch order.ReservationStatus {
		case models.ReservationReserved, models.ReservationConfirmed:
			return nil
		}

		lines := order.ReservationLines()
		if len(lines) == 0 {
			return nil
		}
		if err := inventory.Reserve(ctx, order.ID, lines); err != nil {
			// Returning the error lets asynq retry with backoff; after the
			// final attempt the order stays FAILED for manual review.
			log.Printf("[ReservationRetry] Order %s reservation failed: %v", p.OrderID, err)
			return err
		}
		if err := orders.SetReservationStatus(order.ID, models.ReservationReserved); err != nil {
			log.Printf("[ReservationRetry] Order %s: failed to record reservation: %v", p.OrderID, err)
			return err
		}
		log.Printf("[ReservationRetry] Order %s reservation recovered", p.OrderID)
		return nil
	}
}
