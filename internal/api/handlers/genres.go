package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/moviepicks/internal/catalog"
	"github.com/Conceptual-Machines/moviepicks/internal/icons"
	"github.com/Conceptual-Machines/moviepicks/internal/preferences"
	"github.com/gin-gonic/gin"
)

type GenreResponse struct {
	Name    string `json:"name"`
	IconKey string `json:"icon_key"`
}

type GenresResponse struct {
	Genres    []GenreResponse `json:"genres"`
	MaxGenres int             `json:"max_genres"`
}

type GenresHandler struct {
	catalog *catalog.Catalog
}

func NewGenresHandler(cat *catalog.Catalog) *GenresHandler {
	return &GenresHandler{catalog: cat}
}

// ListGenres returns the genre catalog in order with each genre's icon key
func (h *GenresHandler) ListGenres(c *gin.Context) {
	names := h.catalog.Names()
	genres := make([]GenreResponse, 0, len(names))
	for _, name := range names {
		genres = append(genres, GenreResponse{Name: name, IconKey: icons.Key(name)})
	}

	c.JSON(http.StatusOK, GenresResponse{
		Genres:    genres,
		MaxGenres: preferences.MaxGenres,
	})
}
