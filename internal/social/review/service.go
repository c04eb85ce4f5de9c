// Copyright (c) 2026 Quillshelf. All rights reserved.

// Service layer implementing the review use cases.
package review

import (
	"context"

	"github.com/quillshelf/quillshelf/internal/platform/apperr"
	"github.com/quillshelf/quillshelf/internal/platform/dberr"
	"github.com/quillshelf/quillshelf/internal/platform/sec"
	"github.com/quillshelf/quillshelf/pkg/uuidv7"
)

// Service implements the review use cases: posting, listing, likes, flags,
// and admin moderation.
type Service struct {
	reviewRepository Repository
	likeRepository   LikeRepository
	flagRepository   FlagRepository
}

// NewService constructs a review [Service].
func NewService(reviews Repository, likes LikeRepository, flags FlagRepository) *Service {
	return &Service{
		reviewRepository: reviews,
		likeRepository:   likes,
		flagRepository:   flags,
	}
}

// Post creates a review on a book. Rating bounds are enforced at the
// delivery layer; the service assumes validated input.
func (service *Service) Post(ctx context.Context, userID, bookID string, rating int, comment string) (*Review, error) {
	entry := &Review{
		ID:      uuidv7.New(),
		BookID:  bookID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}

	if err := service.reviewRepository.Create(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// Delete removes a review. The author may delete their own; moderators may
// delete any.
func (service *Service) Delete(ctx context.Context, actorID string, actorRole sec.UserRole, reviewID string) error {
	existing, err := service.reviewRepository.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if existing.UserID != actorID && !actorRole.CanModerate() {
		return apperr.Forbidden("You can only delete your own reviews")
	}

	return service.reviewRepository.Delete(ctx, reviewID)
}

/*
ListByBook returns one page of a book's reviews plus the viewer's like set.

Description: Reviews arrive newest first with like counts and reviewer
profiles hydrated. For a signed-in viewer the liked-review id set rides
along so the client can rebuild its like state in the same fetch; anonymous
viewers get an empty set.

Parameters:
  - ctx: context.Context
  - bookID: the reviewed book
  - viewerID: the signed-in viewer, or "" for anonymous
  - limit, offset: page window

Returns:
  - *BookReviews: the page and the viewer's liked ids
  - error: Database execution errors
*/
func (service *Service) ListByBook(ctx context.Context, bookID, viewerID string, limit, offset int) (*BookReviews, error) {
	reviews, err := service.reviewRepository.ListByBook(ctx, bookID, limit, offset)
	if err != nil {
		return nil, err
	}

	likedIDs := []string{}
	if viewerID != "" {
		ids, err := service.likeRepository.LikedIDs(ctx, viewerID, bookID)
		if err != nil {
			return nil, err
		}
		if ids != nil {
			likedIDs = ids
		}
	}

	return &BookReviews{Reviews: reviews, LikedIDs: likedIDs}, nil
}

/*
ToggleLike flips the viewer's like on a review.

Description: Tries the insert first; a no-op insert means the like already
existed, so it is removed. The returned count is re-derived from the store
rather than adjusted locally, so concurrent toggles converge on the truth.

Parameters:
  - ctx: context.Context
  - userID: the liker
  - reviewID: the review to flip

Returns:
  - LikeResult: membership plus the fresh count
  - error: NotFound if the review is absent, database errors otherwise
*/
func (service *Service) ToggleLike(ctx context.Context, userID, reviewID string) (LikeResult, error) {
	if _, err := service.reviewRepository.FindByID(ctx, reviewID); err != nil {
		return LikeResult{}, err
	}

	liked, err := service.likeRepository.Add(ctx, reviewID, userID)
	if err != nil {
		return LikeResult{}, err
	}
	if !liked {
		if _, err := service.likeRepository.Remove(ctx, reviewID, userID); err != nil {
			return LikeResult{}, err
		}
	}

	count, err := service.likeRepository.Count(ctx, reviewID)
	if err != nil {
		return LikeResult{}, err
	}

	return LikeResult{ReviewID: reviewID, Liked: liked, Count: count}, nil
}

// Flag reports a review. A repeat flag from the same user surfaces as a
// Conflict with a distinct message, never a generic failure.
func (service *Service) Flag(ctx context.Context, userID, reviewID, reason string) error {
	if _, err := service.reviewRepository.FindByID(ctx, reviewID); err != nil {
		return err
	}

	err := service.flagRepository.Create(ctx, &Flag{
		ID:       uuidv7.New(),
		ReviewID: reviewID,
		UserID:   userID,
		Reason:   reason,
		Status:   FlagOpen,
	})
	if err != nil {
		return dberr.Wrap(err, "You have already reported this review")
	}

	return nil
}

// # Moderation

// ListFlagged returns the moderation queue, most-flagged first.
func (service *Service) ListFlagged(ctx context.Context, limit, offset int) ([]*Flagged, error) {
	return service.flagRepository.ListFlagged(ctx, limit, offset)
}

// DismissFlags closes every open flag on a review, keeping the review.
func (service *Service) DismissFlags(ctx context.Context, reviewID string) error {
	if _, err := service.reviewRepository.FindByID(ctx, reviewID); err != nil {
		return err
	}
	return service.flagRepository.Dismiss(ctx, reviewID)
}

// RemoveReview deletes a flagged review outright, moderator decision.
func (service *Service) RemoveReview(ctx context.Context, reviewID string) error {
	return service.reviewRepository.Delete(ctx, reviewID)
}

// Count exposes the total review count for the dashboard.
func (service *Service) Count(ctx context.Context) (int, error) {
	return service.reviewRepository.Count(ctx)
}
