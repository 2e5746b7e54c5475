package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/types"
)

// ProfileService handles user representation, avatar management and
// subscriptions.
type ProfileService struct {
	db    *gorm.DB
	blobs BlobStore
}

func NewProfileService(db *gorm.DB, blobs BlobStore) *ProfileService {
	return &ProfileService{
		db:    db,
		blobs: blobs,
	}
}

// renderUser builds the user representation with the viewer-relative
// is_subscribed flag; anonymous viewers always see false.
func renderUser(ctx context.Context, db *gorm.DB, user *models.User, viewer *uuid.UUID) (*types.UserView, error) {
	view := &types.UserView{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.AvatarURL,
	}

	if viewer != nil {
		var count int64
		err := db.WithContext(ctx).Model(&models.Subscription{}).
			Where("user_id = ? AND author_id = ?", *viewer, user.ID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		view.IsSubscribed = count > 0
	}

	return view, nil
}

// GetUser renders a single user.
func (s *ProfileService) GetUser(ctx context.Context, userID uuid.UUID, viewer *uuid.UUID) (*types.UserView, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, err
	}
	return renderUser(ctx, s.db, &user, viewer)
}

// ListUsers returns a paginated page of user views.
func (s *ProfileService) ListUsers(ctx context.Context, limit, page int, viewer *uuid.UUID) (*types.Page, error) {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("username").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	views := make([]*types.UserView, 0, len(users))
	for i := range users {
		view, err := renderUser(ctx, s.db, &users[i], viewer)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return &types.Page{Count: total, Results: views}, nil
}

// SetAvatar stores the submitted data URI and records its URL on the user.
func (s *ProfileService) SetAvatar(ctx context.Context, userID uuid.UUID, dataURI string) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return "", err
	}

	url, err := s.blobs.UploadDataURI(ctx, dataURI, "avatars")
	if err != nil {
		return "", &FieldError{Field: "avatar", Message: err.Error()}
	}

	user.AvatarURL = url
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return "", err
	}
	return url, nil
}

// ClearAvatar removes the user's avatar blob and reference.
func (s *ProfileService) ClearAvatar(ctx context.Context, userID uuid.UUID) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	if user.AvatarURL != "" {
		if err := s.blobs.Delete(ctx, user.AvatarURL); err != nil {
			return err
		}
	}

	user.AvatarURL = ""
	return s.db.WithContext(ctx).Save(&user).Error
}

// Subscribe follows an author. Self-subscription and duplicates are rejected
// before any row is created.
func (s *ProfileService) Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionView, error) {
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, err
	}

	if userID == authorID {
		return nil, &ConflictError{Message: "Cannot subscribe to yourself"}
	}

	err := createRelation[models.Subscription, *models.Subscription](
		ctx, s.db, "author_id", "Already subscribed to this user", userID, authorID,
	)
	if err != nil {
		return nil, err
	}

	return s.subscriptionView(ctx, &author, userID, recipesLimit)
}

// Unsubscribe drops the subscription; an absent row is an error, never a
// silent success.
func (s *ProfileService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Message: "User not found"}
		}
		return err
	}
	return deleteRelation[models.Subscription](ctx, s.db, "author_id", "You were not subscribed to this user", userID, authorID)
}

// Subscriptions lists the authors the user follows, each with their recipes
// minified and counted.
func (s *ProfileService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit, limit, page int) (*types.Page, error) {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	authorIDs := s.db.Table("subscriptions").Select("author_id").Where("user_id = ?", userID)

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id IN (?)", authorIDs).Count(&total).Error; err != nil {
		return nil, err
	}

	var authors []models.User
	err := s.db.WithContext(ctx).
		Where("id IN (?)", authorIDs).
		Order("username").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&authors).Error
	if err != nil {
		return nil, err
	}

	views := make([]*types.SubscriptionView, 0, len(authors))
	for i := range authors {
		view, err := s.subscriptionView(ctx, &authors[i], userID, recipesLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return &types.Page{Count: total, Results: views}, nil
}

func (s *ProfileService) subscriptionView(ctx context.Context, author *models.User, viewer uuid.UUID, recipesLimit int) (*types.SubscriptionView, error) {
	userView, err := renderUser(ctx, s.db, author, &viewer)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).
		Where("author_id = ?", author.ID).
		Order("created_at DESC")
	if recipesLimit > 0 {
		q = q.Limit(recipesLimit)
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}

	minified := make([]types.RecipeMinified, 0, len(recipes))
	for _, r := range recipes {
		minified = append(minified, types.RecipeMinified{
			ID:          r.ID,
			Name:        r.Name,
			Image:       r.ImageURL,
			CookingTime: r.CookingTime,
		})
	}

	return &types.SubscriptionView{
		UserView:     *userView,
		Recipes:      minified,
		RecipesCount: count,
	}, nil
}
