package web

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/model"
	"social-platform-backend/internal/usecase"
)

// signatureHeader carries the gateway's base64 RSA signature over the full
// callback URL.
const signatureHeader = "x-ca-signature"

// --- payments ---

func (s *Server) handlePay(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	purpose := model.Purpose(r.URL.Query().Get("mode"))
	quote, err := s.paymentUC.RequestTopupAddress(r.Context(), session.Subject, purpose)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"paymentAddress": quote.Address,
		"amount":         quote.Amount,
		"coin":           quote.Coin,
	})
}

func (s *Server) handleSubPay(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	tier := model.PlanTier(r.URL.Query().Get("mode"))
	ownerID := r.URL.Query().Get("sub")
	quote, err := s.paymentUC.RequestSubscriptionAddress(r.Context(), session.Subject, ownerID, tier)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"paymentAddress": quote.Address,
		"planDetails": map[string]any{
			"tier":   quote.Tier,
			"amount": quote.Plan.Amount,
			"days":   quote.Plan.Days,
		},
		"coin": quote.Coin,
	})
}

func (s *Server) callbackRequest(r *http.Request) (usecase.CallbackRequest, error) {
	sig, err := base64.StdEncoding.DecodeString(r.Header.Get(signatureHeader))
	if err != nil || len(sig) == 0 {
		return usecase.CallbackRequest{}, domain.ErrUnauthorized
	}
	return usecase.CallbackRequest{
		TrustedURL: s.callbackBase + r.URL.RequestURI(),
		Signature:  sig,
		Query:      r.URL.Query(),
	}, nil
}

func (s *Server) handleAccountCallback(w http.ResponseWriter, r *http.Request) {
	cb, err := s.callbackRequest(r)
	if err == nil {
		err = s.paymentUC.ConfirmAccountCallback(r.Context(), cb)
	}
	s.finishCallback(w, err)
}

func (s *Server) handleSubscriptionCallback(w http.ResponseWriter, r *http.Request) {
	cb, err := s.callbackRequest(r)
	if err == nil {
		err = s.paymentUC.ConfirmSubscriptionCallback(r.Context(), cb)
	}
	s.finishCallback(w, err)
}

// finishCallback acknowledges a processed confirmation with the literal *ok*
// body the gateway waits for. Duplicates surface as 409 like any other error.
func (s *Server) finishCallback(w http.ResponseWriter, err error) {
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("*ok*"))
}

// --- plans ---

type tierUpdateBody struct {
	Amount float64 `json:"amount"`
	Days   int     `json:"days"`
}

func (s *Server) handlePlanUpdate(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var body map[string]tierUpdateBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, s.log, err)
		return
	}
	updates := make(map[model.PlanTier]model.TierConfig, len(body))
	for tier, cfg := range body {
		updates[model.PlanTier(tier)] = model.TierConfig{Amount: cfg.Amount, Days: cfg.Days}
	}
	plan, err := s.planUC.SetOrUpdate(r.Context(), session.Subject, updates)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, planDTO(plan))
}

func (s *Server) handlePlanGet(w http.ResponseWriter, r *http.Request) {
	plan, err := s.planUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, planDTO(plan))
}

func planDTO(plan *model.CreatorPlan) map[string]any {
	tiers := make(map[string]tierUpdateBody, len(plan.Tiers))
	for tier, cfg := range plan.Tiers {
		tiers[string(tier)] = tierUpdateBody{Amount: cfg.Amount, Days: cfg.Days}
	}
	return map[string]any{"owner_id": plan.OwnerID, "tiers": tiers}
}

// --- users ---

type userDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Biography string    `json:"biography"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserDTO(u *model.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Username:  u.Username,
		Biography: u.Biography,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

func (s *Server) handleUserGet(w http.ResponseWriter, r *http.Request) {
	user, err := s.userUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (s *Server) handleUserVerified(w http.ResponseWriter, r *http.Request) {
	verified, err := s.userUC.IsVerified(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"verified": verified})
}

func (s *Server) handleBiographyUpdate(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var body struct {
		Biography string `json:"biography"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, s.log, err)
		return
	}
	user, err := s.userUC.UpdateBiography(r.Context(), session.Subject, body.Biography)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	if err := s.userUC.Follow(r.Context(), session.Subject, chi.URLParam(r, "id")); err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	if err := s.userUC.Unfollow(r.Context(), session.Subject, chi.URLParam(r, "id")); err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFollowers(w http.ResponseWriter, r *http.Request) {
	ids, err := s.userUC.Followers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"followers": ids})
}

func (s *Server) handleFollowing(w http.ResponseWriter, r *http.Request) {
	ids, err := s.userUC.Following(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"following": ids})
}

// --- subscriptions ---

type subscriptionDTO struct {
	UserID    string    `json:"user_id"`
	OwnerID   string    `json:"owner_id"`
	Tier      string    `json:"tier"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func toSubscriptionDTO(sub *model.ProfileSubscription) subscriptionDTO {
	return subscriptionDTO{
		UserID:    sub.UserID,
		OwnerID:   sub.OwnerID,
		Tier:      string(sub.Tier),
		Status:    string(sub.Status),
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
	}
}

func (s *Server) handleSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	sub, err := s.subUC.Status(r.Context(), session.Subject, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionDTO(sub))
}

func (s *Server) handleSubscriptionList(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	subs, err := s.subUC.ListSubscriptions(r.Context(), session.Subject)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	out := make([]subscriptionDTO, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubscriptionDTO(sub))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSubscriberList(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	ownerID := chi.URLParam(r, "id")
	// Subscriber rosters are visible only to the profile owner.
	if session.Subject != ownerID && !session.IsAdmin {
		writeJSON(w, http.StatusForbidden, errorBody{Error: "not the profile owner"})
		return
	}
	subs, err := s.subUC.ListSubscribers(r.Context(), ownerID)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	out := make([]subscriptionDTO, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubscriptionDTO(sub))
	}
	writeJSON(w, http.StatusOK, out)
}

// --- posts ---

type postDTO struct {
	ID           string    `json:"id"`
	PosterID     string    `json:"poster_id"`
	Username     string    `json:"username"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	IsPrivate    bool      `json:"is_private"`
	LikeCount    int       `json:"like_count"`
	DislikeCount int       `json:"dislike_count"`
	Edited       bool      `json:"edited"`
	CreatedAt    time.Time `json:"created_at"`
}

func toPostDTO(p *model.Post) postDTO {
	return postDTO{
		ID:           p.ID,
		PosterID:     p.PosterID,
		Username:     p.Username,
		Title:        p.Title,
		Content:      p.Content,
		IsPrivate:    p.IsPrivate,
		LikeCount:    p.LikeCount,
		DislikeCount: p.DislikeCount,
		Edited:       p.Edited,
		CreatedAt:    p.CreatedAt,
	}
}

func toPostDTOs(posts []*model.Post) []postDTO {
	out := make([]postDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostDTO(p))
	}
	return out
}

func (s *Server) handlePostCreate(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var body struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Private bool   `json:"private"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, s.log, err)
		return
	}
	post, err := s.postUC.Create(r.Context(), session.Subject, body.Title, body.Content, body.Private)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPostDTO(post))
}

func (s *Server) handlePostGet(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	post, err := s.postUC.Get(r.Context(), session.Subject, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(post))
}

func (s *Server) handlePostUpdate(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var body struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, s.log, err)
		return
	}
	post, err := s.postUC.Update(r.Context(), session.Subject, chi.URLParam(r, "id"), body.Content)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(post))
}

func (s *Server) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	if err := s.postUC.Delete(r.Context(), session.Subject, chi.URLParam(r, "id")); err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	offset := intQuery(r, "offset", 0)
	limit := intQuery(r, "limit", 20)
	posts, err := s.postUC.Feed(r.Context(), offset, limit)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostDTOs(posts))
}

func (s *Server) handleProfilePosts(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	posts, err := s.postUC.ProfilePosts(r.Context(), session.Subject, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostDTOs(posts))
}

func (s *Server) handleLikedPosts(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	posts, err := s.postUC.LikedBy(r.Context(), session.Subject)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostDTOs(posts))
}

func (s *Server) reactHandler(kind model.ReactionKind, add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r.Context())
		postID := chi.URLParam(r, "id")
		var err error
		if add {
			err = s.postUC.React(r.Context(), session.Subject, postID, kind)
		} else {
			err = s.postUC.Unreact(r.Context(), session.Subject, postID, kind)
		}
		if err != nil {
			writeError(w, s.log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func intQuery(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
