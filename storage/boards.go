package storage

import (
	"context"
	"encoding/json"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"taskboard-api/domain"
)

type boardEntity struct {
	entityKeys
	Title string `json:"Title"`
}

// InsertBoard persists a new board under the owner's partition.
func (s *Storage) InsertBoard(ctx context.Context, board *domain.Board) error {
	payload, err := json.Marshal(boardEntity{
		entityKeys: entityKeys{PartitionKey: board.Owner, RowKey: board.ID},
		Title:      board.Title,
	})
	if err != nil {
		return err
	}
	_, err = s.boardTable.AddEntity(ctx, payload, nil)
	return err
}

// FetchBoards retrieves all boards owned by the given user.
func (s *Storage) FetchBoards(ctx context.Context, owner string) ([]domain.Board, error) {
	filter := "PartitionKey eq '" + owner + "'"
	pager := s.boardTable.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})
	boards := []domain.Board{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, data := range resp.Entities {
			var ent boardEntity
			if err := json.Unmarshal(data, &ent); err != nil {
				return nil, err
			}
			boards = append(boards, domain.Board{
				ID:    ent.RowKey,
				Owner: ent.PartitionKey,
				Title: ent.Title,
			})
		}
	}
	return boards, nil
}
