package redisinfra

// OTP state keys, all scoped by email address.
func otpKey(email string) string            { return "otp:" + email }
func cooldownKey(email string) string       { return "otp_cooldown:" + email }
func requestCountKey(email string) string   { return "otp_request_count:" + email }
func spamLockKey(email string) string       { return "otp_spam_lock:" + email }
func failedAttemptsKey(email string) string { return "otp_failed_attempts:" + email }
func lockKey(email string) string           { return "otp_lock:" + email }
func resetGrantKey(email string) string     { return "otp_reset_grant:" + email }
