package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/config"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/service"
)

// MailTask delivers one mail through the wrapped mailer.
type MailTask struct {
	id      uuid.UUID
	mail    service.Mail
	mailer  service.Mailer
	timeout time.Duration
	logger  *slog.Logger
}

// NewMailTask creates a MailTask. A non-positive timeout disables the deadline.
func NewMailTask(mailer service.Mailer, mail service.Mail, timeout time.Duration, logger *slog.Logger) *MailTask {
	return &MailTask{
		id:      uuid.New(),
		mail:    mail,
		mailer:  mailer,
		timeout: timeout,
		logger:  logger,
	}
}

// ID returns the task's unique identifier
func (t *MailTask) ID() uuid.UUID {
	return t.id
}

// Type returns TaskTypeMail
func (t *MailTask) Type() string {
	return TaskTypeMail
}

// Mail returns the message this task delivers.
func (t *MailTask) Mail() service.Mail {
	return t.mail
}

// Execute sends the mail. The logger captured at enqueue time is put back on
// the context so delivery logs keep the request's trace attributes.
func (t *MailTask) Execute(ctx context.Context) error {
	if t.logger != nil {
		ctx = logger.WithLogger(ctx, t.logger)
	}
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.mailer.Send(ctx, t.mail)
}

// Outbox is a service.Mailer that hands mails to background workers.
// Send only fails when the queue is full or closed.
type Outbox struct {
	queue   *TaskQueue
	pool    *WorkerPool
	mailer  service.Mailer
	timeout time.Duration
	logger  *slog.Logger
}

var _ service.Mailer = (*Outbox)(nil)

// NewOutbox creates an Outbox delivering through mailer. Call Start before
// the first Send and Close on shutdown.
func NewOutbox(mailer service.Mailer, cfg config.MailConfig, log *slog.Logger) *Outbox {
	log = log.With("component", "mail_outbox")
	queue := NewTaskQueue(cfg.QueueSize, log)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: cfg.Workers}, log)
	pool.SetErrorHandler(func(task Task, err error) {
		if mt, ok := task.(*MailTask); ok {
			log.Warn("mail delivery failed",
				slog.String("to", mt.mail.To),
				slog.String("subject", mt.mail.Subject),
				slog.String("error", err.Error()))
		}
	})

	return &Outbox{
		queue:   queue,
		pool:    pool,
		mailer:  mailer,
		timeout: cfg.SendTimeout,
		logger:  log,
	}
}

// Start launches the delivery workers.
func (o *Outbox) Start() {
	o.pool.Start()
}

// Send queues mail for delivery.
func (o *Outbox) Send(ctx context.Context, mail service.Mail) error {
	log := logger.FromContextOrDefault(ctx, o.logger)
	return o.queue.Enqueue(NewMailTask(o.mailer, mail, o.timeout, log))
}

// Close stops accepting mails and waits for queued ones to be delivered.
// Mails still pending when ctx ends are dropped.
func (o *Outbox) Close(ctx context.Context) error {
	o.queue.Close()
	if err := o.pool.Wait(ctx); err != nil {
		o.logger.Warn("mail outbox closed before draining", slog.String("error", err.Error()))
		return err
	}
	return nil
}
