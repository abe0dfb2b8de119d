package kafkax

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const dialTimeout = 2 * time.Second

// ReadyCheck passes when any configured broker answers a metadata request
// for the cluster controller.
func ReadyCheck(brokers string) func(context.Context) error {
	list := SplitBrokers(brokers)
	return func(ctx context.Context) error {
		if len(list) == 0 {
			return errors.New("kafka brokers not configured")
		}
		var errs []error
		for _, addr := range list {
			if err := askController(ctx, addr); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", addr, err))
				continue
			}
			return nil
		}
		return errors.Join(errs...)
	}
}

func askController(ctx context.Context, addr string) error {
	dialer := kafka.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(dialTimeout))
	}
	_, err = conn.Controller()
	return err
}
