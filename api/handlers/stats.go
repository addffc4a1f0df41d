package handlers

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tebben/cadastreur/database"
	"github.com/tebben/cadastreur/service"
	"github.com/tebben/cadastreur/settings"
)

type StatsInput struct {
	Nom string `required:"true" path:"nom" maxLength:"100" example:"Dijon" doc:"Commune name as stored in the parcel table"`
}

type StatsResult struct {
	Body struct {
		Stats       service.CommuneStats `json:"stats" doc:"Spatial aggregates of the commune"`
		TotalAreaHa float64              `json:"total_area_ha" doc:"Total area in hectares"`
		AvgAreaHa   float64              `json:"avg_area_ha" doc:"Average area in hectares"`
	}
}

// StatsHandler computes the spatial aggregates of one commune.
func StatsHandler(config settings.Config) func(ctx context.Context, input *struct {
	StatsInput
}) (*StatsResult, error) {
	return func(ctx context.Context, input *struct {
		StatsInput
	}) (*StatsResult, error) {
		pool, err := database.GetDBPool("cadastreur", config.Database)
		if err != nil {
			return nil, huma.Error500InternalServerError(fmt.Sprintf("%v", err))
		}

		stats, err := service.CommuneStatsFor(ctx, pool, config.Loader.Table, config.Loader.CommuneField, input.Nom)
		if err != nil {
			return nil, huma.Error400BadRequest(fmt.Sprintf("%v", err))
		}

		result := &StatsResult{}
		result.Body.Stats = stats
		result.Body.TotalAreaHa = stats.TotalAreaHa()
		result.Body.AvgAreaHa = stats.AvgAreaHa()
		return result, nil
	}
}
