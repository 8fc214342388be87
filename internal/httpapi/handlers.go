package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vitgroww/roomie/internal/candidates"
	"github.com/vitgroww/roomie/internal/filtering"
	"github.com/vitgroww/roomie/internal/logger"
	"github.com/vitgroww/roomie/internal/ranking"
	"github.com/vitgroww/roomie/internal/roommate"
	"github.com/vitgroww/roomie/internal/store"
	"github.com/vitgroww/roomie/internal/validator"
)

const maxMatchLimit = 200

type scoreRequest struct {
	Profile     roommate.Profile       `json:"profile"`
	Preferences roommate.PreferenceSet `json:"preferences"`
}

type matchRequest struct {
	Preferences roommate.PreferenceSet `json:"preferences"`
	RequesterID string                 `json:"requester_id"`
	Limit       int                    `json:"limit" validate:"min=0"`
	MinScore    int                    `json:"min_score" validate:"min=0,max=100"`
	ExcludeIDs  []string               `json:"exclude_ids"`
	BlockOnly   bool                   `json:"block_only"`
}

type matchResponse struct {
	Total   int              `json:"total"`
	Matches []ranking.Ranked `json:"matches"`
}

type listResponse struct {
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
	Items  []*candidates.Candidate `json:"items"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) weights(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"max_points": roommate.MaxPoints(),
		"attributes": roommate.Weights(),
	})
}

func (s *Server) score(c *gin.Context) {
	var req scoreRequest
	if !s.bind(c, &req) {
		return
	}

	req.Profile = req.Profile.Normalized()
	req.Preferences = req.Preferences.Normalized()

	c.JSON(http.StatusOK, roommate.Score(req.Profile, req.Preferences))
}

func (s *Server) match(c *gin.Context) {
	var req matchRequest
	if !s.bind(c, &req) {
		return
	}
	ctx := c.Request.Context()

	pool, err := s.store.All(ctx)
	if err != nil {
		s.internalError(c, "loading candidates", err)
		return
	}
	pool.Exclude(candidates.CandidateIDField, req.ExcludeIDs)

	pipeline := filtering.New(filtering.Default(req.BlockOnly), s.logger)
	pool, err = pipeline.RunFilters(ctx, &filtering.Config{
		RequesterID: req.RequesterID,
		ExcludeFile: s.options.ExcludeFile,
		Preferences: req.Preferences,
	}, filtering.Deps{Logger: s.logger, Validator: s.validator}, pool)
	if err != nil {
		s.internalError(c, "filtering candidates", err)
		return
	}

	options := s.options.Ranking
	if req.Limit > 0 {
		options.Limit = min(req.Limit, maxMatchLimit)
	}
	if req.MinScore > 0 {
		options.MinimumScore = req.MinScore
	}

	ranked, err := ranking.New(options, s.logger).Rank(ctx, req.Preferences, pool)
	if err != nil {
		s.internalError(c, "ranking candidates", err)
		return
	}

	if len(ranked) > 0 {
		top := ranked[0]
		s.logger.Debug("best match", logger.MatchFields(top.Candidate.ID, top.Candidate.Name, top.Result.Score)...)
	}

	c.JSON(http.StatusOK, matchResponse{Total: pool.Len(), Matches: ranked})
}

func (s *Server) listCandidates(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		badRequest(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		badRequest(c, err)
		return
	}

	params := store.ListParams{
		Limit:  limit,
		Offset: offset,
		Block:  roommate.Block(c.Query("block")),
		Mess:   roommate.Mess(c.Query("mess")),
	}
	if params.Block != "" && !params.Block.Valid() {
		badRequest(c, errors.New("unknown block"))
		return
	}
	if params.Mess != "" && !params.Mess.Valid() {
		badRequest(c, errors.New("unknown mess preference"))
		return
	}

	params = params.Effective()
	page, total, err := s.store.List(c.Request.Context(), params)
	if err != nil {
		s.internalError(c, "listing candidates", err)
		return
	}

	c.JSON(http.StatusOK, listResponse{
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
		Items:  page.Items,
	})
}

func (s *Server) getCandidate(c *gin.Context) {
	candidate, found, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.internalError(c, "getting candidate", err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
		return
	}
	c.JSON(http.StatusOK, candidate)
}

func (s *Server) createCandidate(c *gin.Context) {
	var candidate candidates.Candidate
	if err := c.ShouldBindJSON(&candidate); err != nil {
		badRequest(c, err)
		return
	}

	created, err := s.store.Create(c.Request.Context(), &candidate)
	var verr *validator.ValidationError
	switch {
	case errors.As(err, &verr):
		validationFailed(c, verr)
		return
	case errors.Is(err, store.ErrDuplicateID):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.internalError(c, "creating candidate", err)
		return
	}

	s.logger.Info("candidate created", logger.CandidateFields(created.ID, created.Name)...)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) deleteCandidate(c *gin.Context) {
	deleted, err := s.store.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.internalError(c, "deleting candidate", err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// bind decodes the JSON body into dst and validates it. On failure the
// response is already written.
func (s *Server) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, err)
		return false
	}

	err := s.validator.Validate(dst)
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		validationFailed(c, verr)
		return false
	}
	if err != nil {
		s.internalError(c, "validating request", err)
		return false
	}
	return true
}

func (s *Server) internalError(c *gin.Context, action string, err error) {
	s.logger.Error(action, zap.String("request_id", c.GetString("request_id")), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func validationFailed(c *gin.Context, err *validator.ValidationError) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": err.Errors})
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return n, nil
}
