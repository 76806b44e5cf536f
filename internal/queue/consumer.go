package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/venue-seat-reservation/internal/model"
)

// StartLifecycleConsumer connects to RabbitMQ, declares the
// reservation.confirmed and hold.expired queues (durable), and starts
// consuming both. Each message is appended to logs/reservation.log in a
// single-line, human-friendly format. The function runs a reconnect
// loop and keeps running indefinitely; processing errors are logged and
// the offending message is rejected so the server keeps operating.
func StartLifecycleConsumer() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("lifecycle-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("lifecycle-consumer: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("lifecycle-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{ReservationConfirmedQueue, HoldExpiredQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	confirmed, err := ch.Consume(ReservationConfirmedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", ReservationConfirmedQueue, err)
	}
	expired, err := ch.Consume(HoldExpiredQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", HoldExpiredQueue, err)
	}

	for {
		var d amqp.Delivery
		var handle func([]byte) error
		var open bool
		select {
		case d, open = <-confirmed:
			handle = handleConfirmed
		case d, open = <-expired:
			handle = handleExpired
		}
		if !open {
			return errors.New("deliveries channel closed")
		}
		if err := handle(d.Body); err != nil {
			log.Printf("lifecycle-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
}

func handleConfirmed(body []byte) error {
	var ev ReservationConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Reservation confirmed | hold_id=%s | confirmation_id=%s | customer=%s | seats=%s\n",
		ev.ConfirmedAt, ev.HoldID, ev.ConfirmationID, ev.CustomerEmail, formatSeats(ev.Seats))
	return appendLogLine(line)
}

func handleExpired(body []byte) error {
	var ev HoldExpiredEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Hold expired | hold_id=%s | customer=%s | seats=%s\n",
		ev.ExpiredAt, ev.HoldID, ev.CustomerEmail, formatSeats(ev.Seats))
	return appendLogLine(line)
}

func formatSeats(seats []model.Position) string {
	if len(seats) == 0 {
		return "[]"
	}
	parts := make([]string, 0, len(seats))
	for _, p := range seats {
		parts = append(parts, fmt.Sprintf("(%d,%d)", p.Row, p.Col))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func appendLogLine(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "reservation.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
