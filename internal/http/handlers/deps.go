package handlers

import (
	"github.com/jmoiron/sqlx"

	"github.com/BartoszJarocki/udacity-catalog/internal/repos"
	"github.com/BartoszJarocki/udacity-catalog/internal/services"
)

type Deps struct {
	AuthHandler     *AuthHandler
	CategoryHandler *CategoryHandler
	ItemHandler     *ItemHandler
	APIHandler      *APIHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	itemRepo := repos.NewItemRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, itemRepo)

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: auth},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		ItemHandler:     &ItemHandler{Catalog: catalogSvc},
		APIHandler:      &APIHandler{Catalog: catalogSvc},
	}
}
