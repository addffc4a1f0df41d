package handlers

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tebben/cadastreur/database"
	"github.com/tebben/cadastreur/service"
	"github.com/tebben/cadastreur/settings"
)

type ParcelsInput struct {
	Commune string `required:"true" query:"commune" maxLength:"100" example:"Quetigny" doc:"Commune to list parcels for"`
}

type ParcelsResult struct {
	Body struct {
		Count   int              `json:"count" doc:"Number of parcels returned"`
		Parcels []service.Parcel `json:"parcels" doc:"Parcels of the commune, geometry as WKT"`
	}
}

// ParcelsHandler lists the parcels of a commune.
func ParcelsHandler(config settings.Config) func(ctx context.Context, input *struct {
	ParcelsInput
}) (*ParcelsResult, error) {
	return func(ctx context.Context, input *struct {
		ParcelsInput
	}) (*ParcelsResult, error) {
		pool, err := database.GetDBPool("cadastreur", config.Database)
		if err != nil {
			return nil, huma.Error500InternalServerError(fmt.Sprintf("%v", err))
		}

		parcels, err := service.ParcelsByCommune(ctx, pool, config.Loader.Table, config.Loader.CommuneField, input.Commune)
		if err != nil {
			return nil, huma.Error400BadRequest(fmt.Sprintf("%v", err))
		}

		result := &ParcelsResult{}
		result.Body.Count = len(parcels)
		result.Body.Parcels = parcels
		return result, nil
	}
}
