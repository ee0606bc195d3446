package consumer

import (
	"context"
	"encoding/json"

	"github.com/yhnjiuy4321/BankSystem/internal/events"
	"github.com/yhnjiuy4321/BankSystem/internal/notification"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/orgcode"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeAccountLocked turns lockout events into notification emails. User
// accounts get the verification code they need to self unlock; admin
// accounts get a plain notice since only another admin can release them.
func ConsumeAccountLocked(
	ctx context.Context,
	reader *kafkago.Reader,
	mailer notification.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.account_locked")
	log.Info("account locked consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("account locked consumer stopped")
				return
			}
			log.Error("fetch account locked message failed", zap.Error(err))
			continue
		}

		var event events.AccountLockedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// A malformed payload will never parse; drop it.
			log.Error("decode account locked event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := deliverLockNotice(ctx, mailer, event); err != nil {
			// Leave the offset uncommitted so delivery is retried.
			log.Error("deliver lock notice failed",
				zap.String("account", event.Account),
				zap.String("role", event.Role),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit account locked message failed", zap.Error(err))
			continue
		}

		log.Info("lock notice delivered",
			zap.String("account", event.Account),
			zap.String("role", event.Role),
			zap.Bool("admin_override", event.AdminOverride),
		)
	}
}

func deliverLockNotice(ctx context.Context, mailer notification.Mailer, event events.AccountLockedEvent) error {
	if event.Role == orgcode.RoleAdmin {
		return mailer.SendAdminLockNotice(ctx, event.Email, event.Name, event.AdminOverride)
	}
	return mailer.SendUserLockNotice(ctx, event.Email, event.Name, event.VerificationCode)
}
