package storage

import (
	"context"
	"encoding/json"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"taskboard-api/domain"
)

type listEntity struct {
	entityKeys
	Parent string `json:"Parent"`
	Title  string `json:"Title"`
}

// InsertList persists a new list under the owner's partition.
func (s *Storage) InsertList(ctx context.Context, list *domain.List) error {
	payload, err := json.Marshal(listEntity{
		entityKeys: entityKeys{PartitionKey: list.Owner, RowKey: list.ID},
		Parent:     list.Parent,
		Title:      list.Title,
	})
	if err != nil {
		return err
	}
	_, err = s.listTable.AddEntity(ctx, payload, nil)
	return err
}

// FetchLists retrieves the owner's lists under one parent board. The
// parent id is validated upstream before it reaches the filter string.
func (s *Storage) FetchLists(ctx context.Context, owner, parent string) ([]domain.List, error) {
	filter := "PartitionKey eq '" + owner + "' and Parent eq '" + parent + "'"
	pager := s.listTable.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})
	lists := []domain.List{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, data := range resp.Entities {
			var ent listEntity
			if err := json.Unmarshal(data, &ent); err != nil {
				return nil, err
			}
			lists = append(lists, domain.List{
				ID:     ent.RowKey,
				Owner:  ent.PartitionKey,
				Parent: ent.Parent,
				Title:  ent.Title,
			})
		}
	}
	return lists, nil
}
