package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/notification"
)

type PushNotificationProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

// NotificationDispatcher pushes stored notifications to devices off the
// request path through a small worker pool.
type NotificationDispatcher struct {
	service      *NotificationService
	pushProvider PushNotificationProvider
	workers      int
	jobQueue     chan *notification.Notification
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

func NewNotificationDispatcher(service *NotificationService) *NotificationDispatcher {
	dispatcher := &NotificationDispatcher{
		service:  service,
		workers:  3,
		jobQueue: make(chan *notification.Notification, 100),
		stopChan: make(chan struct{}),
	}

	dispatcher.startWorkers()

	return dispatcher
}

// SetPushProvider allows injecting the real FCM provider from main.go
func (d *NotificationDispatcher) SetPushProvider(provider PushNotificationProvider) {
	d.pushProvider = provider
}

// Enqueue queues one notification for push delivery. A full queue drops the
// push; the stored notification still shows up in the app list.
func (d *NotificationDispatcher) Enqueue(n *notification.Notification) {
	select {
	case d.jobQueue <- n:
	default:
		log.Printf("Dispatcher: queue full, dropping push for notification %s", n.ID)
	}
}

func (d *NotificationDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *NotificationDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case n := <-d.jobQueue:
			d.process(n)
		case <-d.stopChan:
			return
		}
	}
}

func (d *NotificationDispatcher) process(n *notification.Notification) {
	if d.pushProvider == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tokens, err := d.service.deviceTokens(ctx, n.ParticipantID)
	if err != nil {
		log.Printf("Dispatcher: failed to load tokens for %s: %v", n.ParticipantID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	data := map[string]any{
		"notification_id": n.ID.String(),
		"type":            string(n.Type),
	}
	if err := d.pushProvider.SendPush(ctx, tokens, n.Title, n.Body, data); err != nil {
		log.Printf("Dispatcher: push failed for notification %s: %v", n.ID, err)
	}
}

// Stop drains the workers. Used on shutdown.
func (d *NotificationDispatcher) Stop() {
	close(d.stopChan)
	d.wg.Wait()
}
