package storage

import (
	"errors"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

// Storage provides access to the table-backed persistence layer. One table
// per resource type; resource tables are partitioned by owner id so every
// read and write is scoped to a single user's partition.
type Storage struct {
	userTable  *aztables.Client
	todoTable  *aztables.Client
	boardTable *aztables.Client
	listTable  *aztables.Client
}

// New creates a Storage instance from the given connection string.
func New(connStr, usersTable, todosTable, boardsTable, listsTable string) (*Storage, error) {
	clientOptions := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &clientOptions)
	if err != nil {
		return nil, err
	}
	return &Storage{
		userTable:  svc.NewClient(usersTable),
		todoTable:  svc.NewClient(todosTable),
		boardTable: svc.NewClient(boardsTable),
		listTable:  svc.NewClient(listsTable),
	}, nil
}

// updateAttempts bounds the optimistic read-modify-write cycles used for
// token set mutations and todo patches.
const updateAttempts = 3

var (
	errUserMissing = errors.New("storage: user not found")
	errContention  = errors.New("storage: too many concurrent updates")
)

// entityKeys is the common key envelope of every table entity.
type entityKeys struct {
	PartitionKey string `json:"PartitionKey"`
	RowKey       string `json:"RowKey"`
	ETag         string `json:"odata.etag,omitempty"`
}

func isStatus(err error, code int) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == code
}
