package redisinfra

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrOTPLocked           = errors.New("otp verification locked")
	ErrOTPSpamLocked       = errors.New("otp request limit exceeded")
	ErrOTPCooldown         = errors.New("otp cooldown active")
	ErrOTPNotFound         = errors.New("otp not found or expired")
	ErrOTPMismatch         = errors.New("otp mismatch")
	ErrOTPAttemptsExceeded = errors.New("otp attempts exceeded")
	ErrResetNotGranted     = errors.New("password reset not granted")
	ErrRedisUnavailable    = errors.New("redis unavailable")
)

// Policy holds the OTP thresholds and lifetimes.
type Policy struct {
	CodeTTL           time.Duration
	CooldownTTL       time.Duration
	RequestWindow     time.Duration
	SpamLockTTL       time.Duration
	FailedAttemptsTTL time.Duration
	LockTTL           time.Duration
	MaxRequests       int
	MaxFailedAttempts int
}

// DefaultPolicy: 5 minute codes, 1 minute cooldown, 2 requests per sliding
// 5 minute window before a 50 minute spam lock, 2 wrong guesses before a
// 5 minute verification lock.
func DefaultPolicy() Policy {
	return Policy{
		CodeTTL:           300 * time.Second,
		CooldownTTL:       60 * time.Second,
		RequestWindow:     300 * time.Second,
		SpamLockTTL:       3000 * time.Second,
		FailedAttemptsTTL: 300 * time.Second,
		LockTTL:           300 * time.Second,
		MaxRequests:       2,
		MaxFailedAttempts: 2,
	}
}

// admitRequestLua checks the three locks in priority order and counts the
// request, all in one round trip.
// KEYS[1] = otp_lock, KEYS[2] = otp_spam_lock, KEYS[3] = otp_cooldown, KEYS[4] = otp_request_count
// ARGV[1] = max requests, ARGV[2] = window seconds, ARGV[3] = spam lock seconds
var admitRequestLua = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return {err='locked'}
end
if redis.call('EXISTS', KEYS[2]) == 1 then
  return {err='spam_locked'}
end
if redis.call('EXISTS', KEYS[3]) == 1 then
  return {err='cooldown'}
end
local count = tonumber(redis.call('GET', KEYS[4]) or '0')
if count >= tonumber(ARGV[1]) then
  redis.call('SET', KEYS[2], 'true', 'EX', ARGV[3])
  return {err='request_limit'}
end
redis.call('SET', KEYS[4], count + 1, 'EX', ARGV[2])
return count + 1
`)

// OTPStore keeps one-time codes and their rate-limit state in Redis.
type OTPStore struct {
	client redis.UniversalClient
	policy Policy
}

func NewOTPStore(client redis.UniversalClient, policy Policy) *OTPStore {
	return &OTPStore{client: client, policy: policy}
}

// AdmitRequest rejects the request when a lock, spam lock or cooldown is set
// for email, otherwise counts it. The request that crosses MaxRequests sets the
// spam lock and is not counted.
func (s *OTPStore) AdmitRequest(ctx context.Context, email string) (int, error) {
	res, err := admitRequestLua.Run(ctx, s.client,
		[]string{lockKey(email), spamLockKey(email), cooldownKey(email), requestCountKey(email)},
		s.policy.MaxRequests,
		seconds(s.policy.RequestWindow),
		seconds(s.policy.SpamLockTTL),
	).Int()
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "spam_locked"), strings.Contains(msg, "request_limit"):
			return 0, ErrOTPSpamLocked
		case strings.Contains(msg, "locked"):
			return 0, ErrOTPLocked
		case strings.Contains(msg, "cooldown"):
			return 0, ErrOTPCooldown
		default:
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return res, nil
}

// Save stores code as the single live OTP for email and starts the cooldown.
func (s *OTPStore) Save(ctx context.Context, email, code string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, otpKey(email), code, s.policy.CodeTTL)
		pipe.Set(ctx, cooldownKey(email), "true", s.policy.CooldownTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Verify compares code with the live OTP for email. On a mismatch it returns
// ErrOTPMismatch and the number of wrong guesses still allowed before the
// lock. On a match every OTP key for email is cleared.
func (s *OTPStore) Verify(ctx context.Context, email, code string) (int, error) {
	const maxRetries = 4
	keys := []string{otpKey(email), failedAttemptsKey(email), lockKey(email)}

	for i := 0; i < maxRetries; i++ {
		remaining := 0
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			locked, err := tx.Exists(ctx, lockKey(email)).Result()
			if err != nil {
				return err
			}
			if locked == 1 {
				return ErrOTPLocked
			}

			stored, err := tx.Get(ctx, otpKey(email)).Result()
			if errors.Is(err, redis.Nil) {
				return ErrOTPNotFound
			}
			if err != nil {
				return err
			}

			failed, err := tx.Get(ctx, failedAttemptsKey(email)).Int()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}

			if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
				if failed >= s.policy.MaxFailedAttempts {
					_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
						pipe.Set(ctx, lockKey(email), "locked", s.policy.LockTTL)
						pipe.Del(ctx, otpKey(email), failedAttemptsKey(email))
						return nil
					})
					if err != nil {
						return err
					}
					return ErrOTPAttemptsExceeded
				}
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Set(ctx, failedAttemptsKey(email), failed+1, s.policy.FailedAttemptsTTL)
					return nil
				})
				if err != nil {
					return err
				}
				remaining = s.policy.MaxFailedAttempts - (failed + 1)
				return ErrOTPMismatch
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx,
					otpKey(email),
					failedAttemptsKey(email),
					cooldownKey(email),
					lockKey(email),
					spamLockKey(email),
				)
				return nil
			})
			return err
		}, keys...)

		switch {
		case err == nil:
			return 0, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, ErrOTPMismatch):
			return remaining, err
		case errors.Is(err, ErrOTPLocked), errors.Is(err, ErrOTPNotFound), errors.Is(err, ErrOTPAttemptsExceeded):
			return 0, err
		default:
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return 0, fmt.Errorf("%w: verify contention on %s", ErrRedisUnavailable, email)
}

// GrantPasswordReset opens a single-use password reset window for email.
func (s *OTPStore) GrantPasswordReset(ctx context.Context, email string, ttl time.Duration) error {
	if err := s.client.Set(ctx, resetGrantKey(email), "true", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// HasPasswordResetGrant reports whether a reset window is open for email.
func (s *OTPStore) HasPasswordResetGrant(ctx context.Context, email string) (bool, error) {
	n, err := s.client.Exists(ctx, resetGrantKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n == 1, nil
}

// ConsumePasswordResetGrant closes the reset window. ErrResetNotGranted means
// it was already used or has expired.
func (s *OTPStore) ConsumePasswordResetGrant(ctx context.Context, email string) error {
	n, err := s.client.Del(ctx, resetGrantKey(email)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if n == 0 {
		return ErrResetNotGranted
	}
	return nil
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}
