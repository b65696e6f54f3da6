package ledger

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "terraspark/pkg/domain"
	"terraspark/pkg/platform/sentinel"
)

const balanceKeyPrefix = "ledger:balance:"

// transferScript performs check-debit-credit as one atomic unit on the
// server. Returns -1 when the source balance cannot cover the amount, in
// which case nothing moved.
var transferScript = redis.NewScript(`
local bal = tonumber(redis.call('GET', KEYS[1]) or '0')
local amount = tonumber(ARGV[1])
if bal < amount then
	return -1
end
redis.call('DECRBY', KEYS[1], amount)
redis.call('INCRBY', KEYS[2], amount)
return bal - amount
`)

// Redis is a ledger backed by a shared Redis instance, for deployments where
// multiple registry replicas must agree on balances. Atomicity comes from the
// single-threaded execution of the transfer script.
type Redis struct {
	client redis.Cmdable
}

func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

func balanceKey(account id.AccountID) string {
	return balanceKeyPrefix + account.String()
}

// Deposit credits an account. Seeding only; not part of the Ledger port.
func (l *Redis) Deposit(ctx context.Context, account id.AccountID, amount uint64) error {
	if err := l.client.IncrBy(ctx, balanceKey(account), int64(amount)).Err(); err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	return nil
}

func (l *Redis) Transfer(ctx context.Context, from, to id.AccountID, amount uint64) error {
	res, err := transferScript.Run(ctx, l.client, []string{balanceKey(from), balanceKey(to)}, amount).Int64()
	if err != nil {
		return fmt.Errorf("ledger transfer: %w", err)
	}
	if res < 0 {
		return sentinel.ErrInsufficientFunds
	}
	return nil
}

func (l *Redis) Balance(ctx context.Context, account id.AccountID) (uint64, error) {
	val, err := l.client.Get(ctx, balanceKey(account)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ledger balance: %w", err)
	}
	return uint64(val), nil
}
