package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type userDoc struct {
	ID         string `firestore:"id"`
	Name       string `firestore:"name"`
	Email      string `firestore:"email"`
	Department string `firestore:"department"`
	Role       string `firestore:"role"`
}

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{client: client}
}

func (r *userRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_users"
	}
	return "users"
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	it := r.client.Collection(r.collection()).Documents(ctx)
	defer it.Stop()

	var users []*model.User
	for {
		docSnap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}
		var doc userDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode user", goerr.V("doc_id", docSnap.Ref.ID))
		}
		users = append(users, &model.User{
			ID:         types.UserID(doc.ID),
			Name:       doc.Name,
			Email:      doc.Email,
			Department: doc.Department,
			Role:       doc.Role,
		})
	}
	return users, nil
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var doc userDoc
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("id", id))
	}
	return &model.User{
		ID:         types.UserID(doc.ID),
		Name:       doc.Name,
		Email:      doc.Email,
		Department: doc.Department,
		Role:       doc.Role,
	}, nil
}

func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		return goerr.New("user ID is required")
	}

	doc := userDoc{
		ID:         user.ID.String(),
		Name:       user.Name,
		Email:      user.Email,
		Department: user.Department,
		Role:       user.Role,
	}
	_, err := r.client.Collection(r.collection()).Doc(doc.ID).Set(ctx, doc)
	if err != nil {
		return goerr.Wrap(err, "failed to put user", goerr.V("id", doc.ID))
	}
	return nil
}
