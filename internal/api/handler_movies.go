package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"movie-catalog-backend/internal/catalog"
	"movie-catalog-backend/internal/model"
	"movie-catalog-backend/internal/mw"
	"movie-catalog-backend/internal/parse"
	"movie-catalog-backend/internal/store"
)

const defaultPerPage = 10

type createMovieRequest struct {
	Title            string   `json:"title" binding:"required"`
	OriginalTitle    string   `json:"originalTitle" binding:"required"`
	Description      string   `json:"description" binding:"required"`
	Tagline          *string  `json:"tagline"`
	ReleaseDate      string   `json:"releaseDate" binding:"required,releasedate"`
	Duration         *int     `json:"duration" binding:"required,min=0"`
	Status           string   `json:"status" binding:"required,oneof=RELEASED IN_PRODUCTION PLANNED CANCELLED"`
	Language         string   `json:"language" binding:"required,oneof=EN PT ES FR DE JP"`
	Budget           *float64 `json:"budget" binding:"omitempty,min=0"`
	Revenue          *float64 `json:"revenue" binding:"omitempty,min=0"`
	Popularity       *float64 `json:"popularity" binding:"omitempty,min=0"`
	Votes            *int     `json:"votes" binding:"omitempty,min=0"`
	RatingPercentage *float64 `json:"ratingPercentage" binding:"omitempty,min=0,max=100"`
	GenreIDs         []string `json:"genresIds"`
	PosterFileID     *string  `json:"posterFileId"`
	BannerFileID     *string  `json:"bannerFileId"`
}

// CreateMovie handles POST /movies.
func (h *Handler) CreateMovie(c *gin.Context) {
	var req createMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingError(err))
		return
	}
	release, err := parse.ReleaseDate(req.ReleaseDate)
	if err != nil {
		badRequest(c, "releaseDate must be a date in YYYY-MM-DD format")
		return
	}

	movie, err := h.movies.Create(c.Request.Context(), mw.UserID(c), catalog.CreateMovieInput{
		Title:            req.Title,
		OriginalTitle:    req.OriginalTitle,
		Description:      req.Description,
		Tagline:          req.Tagline,
		ReleaseDate:      release,
		Duration:         *req.Duration,
		Status:           model.MovieStatus(req.Status),
		Language:         model.Language(req.Language),
		Budget:           req.Budget,
		Revenue:          req.Revenue,
		Popularity:       req.Popularity,
		Votes:            req.Votes,
		RatingPercentage: req.RatingPercentage,
		GenreIDs:         req.GenreIDs,
		PosterFileID:     req.PosterFileID,
		BannerFileID:     req.BannerFileID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, movie, nil)
}

type listMoviesQuery struct {
	Title            string   `form:"title"`
	Status           string   `form:"status" binding:"omitempty,oneof=RELEASED IN_PRODUCTION PLANNED CANCELLED"`
	Language         string   `form:"language" binding:"omitempty,oneof=EN PT ES FR DE JP"`
	GenreIDs         []string `form:"genreIds"`
	ReleaseDateStart string   `form:"releaseDateStart" binding:"omitempty,releasedate"`
	ReleaseDateEnd   string   `form:"releaseDateEnd" binding:"omitempty,releasedate"`
}

// ListMovies handles GET /movies.
func (h *Handler) ListMovies(c *gin.Context) {
	var q listMoviesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, bindingError(err))
		return
	}
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	filter := store.MovieFilter{
		Title:    strings.TrimSpace(q.Title),
		Status:   model.MovieStatus(q.Status),
		Language: model.Language(q.Language),
		GenreIDs: splitIDs(q.GenreIDs),
	}
	filter.ReleaseDateStart = optionalDate(q.ReleaseDateStart)
	filter.ReleaseDateEnd = optionalDate(q.ReleaseDateEnd)

	result, err := h.movies.List(c.Request.Context(), filter, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondPage(c, result)
}

// ListMoviesByUser handles GET /movies/user/:userId.
func (h *Handler) ListMoviesByUser(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	result, err := h.movies.ListByUser(c.Request.Context(), c.Param("userId"), page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondPage(c, result)
}

func (h *Handler) respondPage(c *gin.Context, p catalog.MoviePage) {
	h.respond(c, http.StatusOK, p.Movies, gin.H{
		"total":      p.Total,
		"page":       p.Page,
		"perPage":    p.PerPage,
		"totalPages": p.TotalPages,
	})
}

// pageFromQuery reads page and perPage, defaulting to the first page of
// ten. It writes a 400 and returns false on malformed values.
func pageFromQuery(c *gin.Context) (store.Page, bool) {
	page := store.Page{Number: 1, PerPage: defaultPerPage}
	for name, dst := range map[string]*int{"page": &page.Number, "perPage": &page.PerPage} {
		raw, ok := c.GetQuery(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "invalid pagination parameters: page and perPage must be positive numbers")
			return store.Page{}, false
		}
		*dst = n
	}
	return page, true
}

// splitIDs accepts repeated parameters as well as comma separated lists.
func splitIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func optionalDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := parse.ReleaseDate(raw)
	if err != nil {
		return nil
	}
	return &t
}

// GetMovieBySlug handles GET /movies/:slug.
func (h *Handler) GetMovieBySlug(c *gin.Context) {
	movie, err := h.movies.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, movie, nil)
}

type updateMovieRequest struct {
	Title            *string  `json:"title" binding:"omitempty,min=1"`
	OriginalTitle    *string  `json:"originalTitle"`
	Description      *string  `json:"description"`
	Tagline          *string  `json:"tagline"`
	ReleaseDate      *string  `json:"releaseDate" binding:"omitempty,releasedate"`
	Duration         *int     `json:"duration"`
	Status           *string  `json:"status" binding:"omitempty,oneof=RELEASED IN_PRODUCTION PLANNED CANCELLED"`
	Language         *string  `json:"language" binding:"omitempty,oneof=EN PT ES FR DE JP"`
	Budget           *float64 `json:"budget" binding:"omitempty,min=0"`
	Revenue          *float64 `json:"revenue" binding:"omitempty,min=0"`
	Popularity       *float64 `json:"popularity" binding:"omitempty,min=0"`
	Votes            *int     `json:"votes" binding:"omitempty,min=0"`
	RatingPercentage *float64 `json:"ratingPercentage" binding:"omitempty,min=0,max=100"`
	GenreIDs         []string `json:"genresIds"`
	PosterFileID     *string  `json:"posterFileId"`
	BannerFileID     *string  `json:"bannerFileId"`
	Slug             *string  `json:"slug"`
}

// UpdateMovie handles PATCH /movies/:movieId.
func (h *Handler) UpdateMovie(c *gin.Context) {
	var req updateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingError(err))
		return
	}

	in := catalog.UpdateMovieInput{
		Title:            req.Title,
		OriginalTitle:    req.OriginalTitle,
		Description:      req.Description,
		Tagline:          req.Tagline,
		Duration:         req.Duration,
		Budget:           req.Budget,
		Revenue:          req.Revenue,
		Popularity:       req.Popularity,
		Votes:            req.Votes,
		RatingPercentage: req.RatingPercentage,
		GenreIDs:         req.GenreIDs,
		PosterFileID:     req.PosterFileID,
		BannerFileID:     req.BannerFileID,
		Slug:             req.Slug,
	}
	if req.ReleaseDate != nil {
		in.ReleaseDate = optionalDate(*req.ReleaseDate)
	}
	if req.Status != nil {
		status := model.MovieStatus(*req.Status)
		in.Status = &status
	}
	if req.Language != nil {
		language := model.Language(*req.Language)
		in.Language = &language
	}

	movie, err := h.movies.Update(c.Request.Context(), mw.UserID(c), c.Param("movieId"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, movie, nil)
}

// DeleteMovie handles DELETE /movies/:movieId.
func (h *Handler) DeleteMovie(c *gin.Context) {
	movie, err := h.movies.Delete(c.Request.Context(), mw.UserID(c), c.Param("movieId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, movie, nil)
}

type addGenresRequest struct {
	GenreIDs []string `json:"genreIds" binding:"required,min=1"`
}

// AddGenresToMovie handles POST /movies/:movieId/genres.
func (h *Handler) AddGenresToMovie(c *gin.Context) {
	var req addGenresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingError(err))
		return
	}

	movie, err := h.movies.AddGenres(c.Request.Context(), mw.UserID(c), c.Param("movieId"), req.GenreIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, movie, nil)
}

// RemoveGenreFromMovie handles DELETE /movies/:movieId/genres/:genreId.
func (h *Handler) RemoveGenreFromMovie(c *gin.Context) {
	movie, err := h.movies.RemoveGenre(c.Request.Context(), mw.UserID(c), c.Param("movieId"), c.Param("genreId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, movie, nil)
}

// GetGenres handles GET /movies/genres.
func (h *Handler) GetGenres(c *gin.Context) {
	genres, err := h.movies.Genres(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, genres, nil)
}
