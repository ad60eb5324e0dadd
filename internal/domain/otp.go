package domain

// OTPEntry is the ephemeral email→code mapping held in the OTP cache.
// PK: email. ExpiresAt is a Unix timestamp used as the DynamoDB TTL; the
// cache layer also checks it on reads because TTL deletion is lazy; an
// expired entry reads the same as an absent one.
type OTPEntry struct {
	Email     string `json:"email" dynamodbav:"email"`
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
