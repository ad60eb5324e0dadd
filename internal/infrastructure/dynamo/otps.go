package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/employee-api/internal/domain"
)

// OTPRepo is the one-time-passcode cache, keyed by email so there is at most
// one active code per email; Put overwrites, never appends. The expires_at
// attribute doubles as the DynamoDB TTL, but TTL deletion is lazy, so Get
// checks expiry itself: an expired entry and a missing entry both come back
// as domain.ErrNotFound, which keeps "never requested" and "expired"
// indistinguishable to callers.
type OTPRepo struct {
	client    *dynamodb.Client
	tableName string
	now       func() time.Time
}

func NewOTPRepo(client *dynamodb.Client, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName, now: time.Now}
}

// Put stores the code for email with the given TTL, replacing any existing entry.
func (r *OTPRepo) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	entry := &domain.OTPEntry{
		Email:     email,
		Code:      code,
		ExpiresAt: r.now().Add(ttl).Unix(),
	}
	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("marshal otp entry: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Get returns the active code for email, or domain.ErrNotFound when there is
// no entry or the entry has expired.
func (r *OTPRepo) Get(ctx context.Context, email string) (string, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	if err != nil {
		return "", err
	}
	if out.Item == nil {
		return "", fmt.Errorf("otp for %s: %w", email, domain.ErrNotFound)
	}
	var entry domain.OTPEntry
	if err := attributevalue.UnmarshalMap(out.Item, &entry); err != nil {
		return "", err
	}
	if entry.ExpiresAt <= r.now().Unix() {
		return "", fmt.Errorf("otp for %s: %w", email, domain.ErrNotFound)
	}
	return entry.Code, nil
}

// Delete removes the entry for email. Deleting an absent entry is not an error.
func (r *OTPRepo) Delete(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	return err
}
