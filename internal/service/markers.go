package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/apperrors"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/metrics"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/policy"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/store"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/validation"
)

type Markers struct {
	repo     store.Repository
	validate *validation.Validator
	logger   *zap.SugaredLogger
}

func NewMarkers(repo store.Repository, v *validation.Validator, l *zap.SugaredLogger) *Markers {
	return &Markers{
		repo:     repo,
		validate: v,
		logger:   l,
	}
}

func markerID(m db.Marker) uuid.UUID { return m.ID }

func (s *Markers) ListPublic(ctx context.Context) ([]db.Marker, error) {
	markers, err := s.repo.ListMarkers(ctx, store.MarkerQuery{})
	if err != nil {
		return nil, err
	}
	return policy.FilterListed(policy.Anonymous, markers, markerID), nil
}

// ListVisible is the community feed: public markers plus the principal's own,
// optionally narrowed to markers carrying any of the given labels.
func (s *Markers) ListVisible(ctx context.Context, p policy.Principal, tags []string) ([]db.Marker, error) {
	keys := filterKeys(tags)
	markers, err := s.repo.ListMarkers(ctx, store.MarkerQuery{
		Scope:   listScope(p),
		TagKeys: keys,
	})
	if err != nil {
		return nil, err
	}
	return s.filter(p, markers, keys), nil
}

// ListByOwner lists ownerID's markers. The owner and admins see all of them,
// everyone else only the public ones. No markers is an empty list.
func (s *Markers) ListByOwner(ctx context.Context, p policy.Principal, ownerID uuid.UUID, tags []string) ([]db.Marker, error) {
	keys := filterKeys(tags)
	markers, err := s.repo.ListMarkers(ctx, store.MarkerQuery{
		Scope:   store.ListScope{All: p.Owns(ownerID) || p.IsAdmin()},
		OwnerID: &ownerID,
		TagKeys: keys,
	})
	if err != nil {
		return nil, err
	}
	return s.filter(p, markers, keys), nil
}

func (s *Markers) filter(p policy.Principal, markers []db.Marker, keys []string) []db.Marker {
	desired := keySet(keys)
	listed := policy.FilterListed(p, markers, markerID)
	out := listed[:0]
	for _, m := range listed {
		if policy.MatchesTags(m.TagKeys(), desired) {
			out = append(out, m)
		}
	}
	return out
}

// Get returns a marker the principal may read. Markers the principal may not
// read are reported as missing.
func (s *Markers) Get(ctx context.Context, p policy.Principal, id uuid.UUID) (*db.Marker, error) {
	marker, err := s.repo.GetMarker(ctx, id)
	if err != nil {
		return nil, notFound(err, "marker")
	}
	if !policy.CanViewMarker(p, marker) {
		return nil, apperrors.NotFound("marker not found")
	}
	return marker, nil
}

func (s *Markers) Create(ctx context.Context, p policy.Principal, req *models.MarkerReq) (*db.Marker, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	labels, err := s.checkInput(req)
	if err != nil {
		return nil, err
	}

	owner, err := s.repo.GetUser(ctx, p.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Unauthorized("user no longer exists")
		}
		return nil, err
	}

	marker := db.Marker{
		OwnerID:    owner.ID,
		AuthorName: owner.Username,
		Visibility: string(policy.Public),
	}
	applyMarkerReq(&marker, req)

	err = s.repo.Transaction(ctx, func(r store.Repository) error {
		if err := r.CreateMarker(ctx, &marker); err != nil {
			return err
		}
		tagIDs, err := s.reconcile(ctx, r, labels, owner.ID)
		if err != nil {
			return err
		}
		_, err = r.ReplaceMarkerTags(ctx, marker.ID, tagIDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.MarkersCreated.Inc()

	return s.repo.GetMarker(ctx, marker.ID)
}

// Update replaces the marker's fields and its tag set. Owner, author name and
// creation time never change.
func (s *Markers) Update(ctx context.Context, p policy.Principal, id uuid.UUID, req *models.MarkerReq) (*db.Marker, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	labels, err := s.checkInput(req)
	if err != nil {
		return nil, err
	}

	marker, err := s.repo.GetMarker(ctx, id)
	if err != nil {
		return nil, notFound(err, "marker")
	}
	if !policy.CanMutate(p, marker) {
		return nil, apperrors.Forbidden("only the owner or an admin can change this marker")
	}

	// New tags belong to the marker's owner; an orphaned marker's new tags go
	// to whoever is editing it.
	tagOwner := marker.OwnerID
	if _, err := s.repo.GetUser(ctx, tagOwner); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		tagOwner = p.ID
	}

	applyMarkerReq(marker, req)
	marker.Tags = nil

	err = s.repo.Transaction(ctx, func(r store.Repository) error {
		if err := r.UpdateMarker(ctx, marker); err != nil {
			return notFound(err, "marker")
		}
		tagIDs, err := s.reconcile(ctx, r, labels, tagOwner)
		if err != nil {
			return err
		}
		removed, err := r.ReplaceMarkerTags(ctx, marker.ID, tagIDs)
		if err != nil {
			return err
		}
		return s.sweep(ctx, r, removed)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetMarker(ctx, id)
}

// Delete removes the marker with its comments and associations, then drops
// tags left without markers.
func (s *Markers) Delete(ctx context.Context, p policy.Principal, id uuid.UUID) error {
	if err := requireAuth(p); err != nil {
		return err
	}
	marker, err := s.repo.GetMarker(ctx, id)
	if err != nil {
		return notFound(err, "marker")
	}
	if !policy.CanMutate(p, marker) {
		return apperrors.Forbidden("only the owner or an admin can delete this marker")
	}

	return s.repo.Transaction(ctx, func(r store.Repository) error {
		removed, err := r.ReplaceMarkerTags(ctx, id, nil)
		if err != nil {
			return err
		}
		if _, err := r.DeleteCommentsByMarker(ctx, id); err != nil {
			return err
		}
		if err := r.DeleteMarker(ctx, id); err != nil {
			return notFound(err, "marker")
		}
		return s.sweep(ctx, r, removed)
	})
}

func (s *Markers) checkInput(req *models.MarkerReq) ([]string, error) {
	req.Trim()
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}
	return normalizeLabels(req.Tags)
}

// reconcile resolves labels to tag ids, creating the missing tags. A
// concurrent insert of the same label surfaces as a duplicate key inside a
// savepoint; the winner's row is read back instead.
func (s *Markers) reconcile(ctx context.Context, r store.Repository, labels []string, ownerID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(labels))
	for _, label := range labels {
		key := db.LabelKey(label)

		tag, err := r.FindTagByKey(ctx, key)
		if err == nil {
			ids = append(ids, tag.ID)
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		tag = &db.Tag{
			OwnerID: ownerID,
			Label:   label,
			Color:   db.DefaultTagColor,
			Scope:   string(policy.Public),
		}
		err = r.Transaction(ctx, func(r store.Repository) error {
			return r.CreateTag(ctx, tag)
		})
		switch {
		case err == nil:
			metrics.TagsCreated.WithLabelValues("reconcile").Inc()
		case errors.Is(err, store.ErrDuplicate):
			if tag, err = r.FindTagByKey(ctx, key); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func (s *Markers) sweep(ctx context.Context, r store.Repository, tagIDs []uuid.UUID) error {
	n, err := r.SweepOrphanTags(ctx, tagIDs)
	if err != nil {
		return err
	}
	if n > 0 {
		metrics.TagsSwept.Add(float64(n))
		s.logger.Debugw("orphan tags removed", "count", n)
	}
	return nil
}

func applyMarkerReq(m *db.Marker, req *models.MarkerReq) {
	m.Latitude = *req.Lat
	m.Longitude = *req.Lng
	m.Emoji = strings.TrimSpace(req.EmojiCode)
	m.Title = strings.TrimSpace(req.Title)
	m.Description = strings.TrimSpace(req.Description)
	if req.Visibility != "" {
		m.Visibility = req.Visibility
	}
}
