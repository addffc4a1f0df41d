package handlers

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tebben/cadastreur/database"
	"github.com/tebben/cadastreur/service"
	"github.com/tebben/cadastreur/settings"
)

type CommunesResult struct {
	Body struct {
		Communes []service.CommuneCount `json:"communes" doc:"Parcel count per commune"`
	}
}

// CommunesHandler returns the per-commune parcel counts of the parcel table.
func CommunesHandler(config settings.Config) func(ctx context.Context, input *struct{}) (*CommunesResult, error) {
	return func(ctx context.Context, input *struct{}) (*CommunesResult, error) {
		pool, err := database.GetDBPool("cadastreur", config.Database)
		if err != nil {
			return nil, huma.Error500InternalServerError(fmt.Sprintf("%v", err))
		}

		counts, err := service.CommuneCounts(ctx, pool, config.Loader.Table, config.Loader.CommuneField)
		if err != nil {
			return nil, huma.Error400BadRequest(fmt.Sprintf("%v", err))
		}

		result := &CommunesResult{}
		result.Body.Communes = counts
		return result, nil
	}
}
