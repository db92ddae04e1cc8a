package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"taskboard-api/domain"
)

// The users table holds two kinds of entities: the user record itself
// (partition "user", row = user id) and an email reservation (partition
// "email", row = encoded email) whose insert conflict enforces uniqueness.
const (
	userPartition  = "user"
	emailPartition = "email"
)

type userEntity struct {
	entityKeys
	Email        string `json:"Email"`
	PasswordHash string `json:"PasswordHash"`
	Tokens       string `json:"Tokens"`
}

type emailEntity struct {
	entityKeys
	UserID string `json:"UserID"`
}

// emailRowKey encodes an email address into a key-safe row key.
func emailRowKey(email string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(email))
}

type emailInUseError struct{ email string }

func (emailInUseError) Error() string { return "email already registered" }
func (emailInUseError) EmailInUse()   {}

// CreateUser persists a new user. The email reservation is written first;
// a conflict there reports the address as taken before the user record is
// touched.
func (s *Storage) CreateUser(ctx context.Context, user *domain.User) error {
	reservation := emailEntity{
		entityKeys: entityKeys{PartitionKey: emailPartition, RowKey: emailRowKey(user.Email)},
		UserID:     user.ID,
	}
	payload, err := json.Marshal(reservation)
	if err != nil {
		return err
	}
	if _, err := s.userTable.AddEntity(ctx, payload, nil); err != nil {
		if isStatus(err, http.StatusConflict) {
			return emailInUseError{email: user.Email}
		}
		return err
	}

	entPayload, err := encodeUser(user)
	if err == nil {
		_, err = s.userTable.AddEntity(ctx, entPayload, nil)
	}
	if err != nil {
		// Release the reservation so the address stays claimable.
		match := azcore.ETagAny
		_, _ = s.userTable.DeleteEntity(ctx, emailPartition, reservation.RowKey, &aztables.DeleteEntityOptions{IfMatch: &match})
		return err
	}
	return nil
}

// FindUserByEmail resolves an email to its user record, or nil when the
// address is unknown.
func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	resp, err := s.userTable.GetEntity(ctx, emailPartition, emailRowKey(email), nil)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var reservation emailEntity
	if err := json.Unmarshal(resp.Value, &reservation); err != nil {
		return nil, err
	}
	user, _, err := s.getUser(ctx, reservation.UserID)
	return user, err
}

// FindUserByToken loads the user and checks the token against the active
// set. A valid signature with a revoked token yields nil here.
func (s *Storage) FindUserByToken(ctx context.Context, userID, token, access string) (*domain.User, error) {
	user, _, err := s.getUser(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}
	if !user.HasToken(token, access) {
		return nil, nil
	}
	return user, nil
}

// AppendToken adds an issued token to the user's active set.
func (s *Storage) AppendToken(ctx context.Context, userID string, token domain.Token) error {
	return s.mutateTokens(ctx, userID, func(tokens []domain.Token) []domain.Token {
		return append(tokens, token)
	})
}

// RemoveToken revokes a single token from the user's active set.
func (s *Storage) RemoveToken(ctx context.Context, userID, token string) error {
	return s.mutateTokens(ctx, userID, func(tokens []domain.Token) []domain.Token {
		kept := tokens[:0]
		for _, t := range tokens {
			if t.Token != token {
				kept = append(kept, t)
			}
		}
		return kept
	})
}

// mutateTokens applies an optimistic read-modify-write cycle on the user
// record, conditioned on its ETag so concurrent mutations never interleave
// a partial token set.
func (s *Storage) mutateTokens(ctx context.Context, userID string, mutate func([]domain.Token) []domain.Token) error {
	for attempt := 0; attempt < updateAttempts; attempt++ {
		user, etag, err := s.getUser(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return errUserMissing
		}
		user.Tokens = mutate(user.Tokens)

		payload, err := encodeUser(user)
		if err != nil {
			return err
		}
		match := azcore.ETag(etag)
		_, err = s.userTable.UpdateEntity(ctx, payload, &aztables.UpdateEntityOptions{
			IfMatch:    &match,
			UpdateMode: aztables.UpdateModeReplace,
		})
		if err == nil {
			return nil
		}
		if !isStatus(err, http.StatusPreconditionFailed) {
			return err
		}
	}
	return errContention
}

func (s *Storage) getUser(ctx context.Context, id string) (*domain.User, string, error) {
	resp, err := s.userTable.GetEntity(ctx, userPartition, id, nil)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, "", nil
		}
		return nil, "", err
	}
	return decodeUser(resp.Value)
}

func encodeUser(user *domain.User) ([]byte, error) {
	tokens, err := json.Marshal(user.Tokens)
	if err != nil {
		return nil, err
	}
	return json.Marshal(userEntity{
		entityKeys:   entityKeys{PartitionKey: userPartition, RowKey: user.ID},
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Tokens:       string(tokens),
	})
}

func decodeUser(data []byte) (*domain.User, string, error) {
	var ent userEntity
	if err := json.Unmarshal(data, &ent); err != nil {
		return nil, "", err
	}
	var tokens []domain.Token
	if ent.Tokens != "" {
		if err := json.Unmarshal([]byte(ent.Tokens), &tokens); err != nil {
			return nil, "", err
		}
	}
	user := &domain.User{
		ID:           ent.RowKey,
		Email:        ent.Email,
		PasswordHash: ent.PasswordHash,
		Tokens:       tokens,
	}
	return user, ent.ETag, nil
}
