package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/goshop/storefront/internal/adapter/secondary/messaging"
	"github.com/goshop/storefront/internal/config"
	"github.com/goshop/storefront/internal/core"
)

func main() {
	cfg := config.Load()
	logg := config.NewLogger(cfg.LogLevel)

	// Initialize secondary adapter: Messaging (concrete type for worker)
	msgClient, err := messaging.NewRabbitMQClient(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer msgClient.Close()

	// Start consuming order-paid events. Confirmation mail and the
	// affiliate-commission ledger are owned by downstream services; this
	// worker hands the event off and records the fact.
	err = msgClient.ConsumeOrderPaid(func(event core.OrderPaidEvent) error {
		logg.WithFields(logrus.Fields{
			"order_id":            event.OrderID,
			"payment_ref":         event.PaymentRef,
			"bank_transaction_id": event.BankTransactionID,
			"amount":              event.Amount,
		}).Info("order paid; dispatching downstream notifications")
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to start consuming events: %v", err)
	}

	log.Println("Order-paid worker started. Press CTRL+C to exit.")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")
}
