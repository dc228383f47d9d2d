package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
)

const collectionAnnouncements = "announcements"

// targetAllRoles in target_roles makes an announcement visible to every role.
const targetAllRoles = "all"

// announcementDoc is the stored shape of an announcement.
type announcementDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Content     string             `bson:"content"`
	Type        string             `bson:"type"`
	Priority    string             `bson:"priority"`
	TargetRoles []string           `bson:"target_roles"`
	IsActive    bool               `bson:"is_active"`
	IsPinned    bool               `bson:"is_pinned"`
	PublishedAt time.Time          `bson:"published_at"`
	ExpiresAt   *time.Time         `bson:"expires_at,omitempty"`
	ActionURL   string             `bson:"action_url,omitempty"`
}

// AnnouncementFeed reads published announcements and maps them to activity events.
type AnnouncementFeed struct {
	col *mongo.Collection
	now func() time.Time
}

func NewAnnouncementFeed(db *mongo.Database) *AnnouncementFeed {
	return &AnnouncementFeed{col: db.Collection(collectionAnnouncements), now: time.Now}
}

// Recent returns up to limit active, unexpired announcements targeted at role,
// newest first.
func (f *AnnouncementFeed) Recent(ctx context.Context, role domain.Role, limit int) ([]domain.ActivityEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := f.col.Find(ctx, recentFilter(role, f.now()), opts)
	if err != nil {
		return nil, fmt.Errorf("find announcements: %w", err)
	}
	defer cur.Close(ctx)

	var docs []announcementDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode announcements: %w", err)
	}

	events := make([]domain.ActivityEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, d.toActivity())
	}
	return events, nil
}

// Ping reports whether the backing database is reachable.
func (f *AnnouncementFeed) Ping(ctx context.Context) error {
	return f.col.Database().Client().Ping(ctx, nil)
}

// EnsureIndexes creates the indexes the feed query relies on.
func (f *AnnouncementFeed) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "published_at", Value: -1}}},
		{Keys: bson.D{{Key: "target_roles", Value: 1}}},
	}

	_, err := f.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func recentFilter(role domain.Role, now time.Time) bson.M {
	return bson.M{
		"is_active":    true,
		"published_at": bson.M{"$lte": now},
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"target_roles": string(role)},
				bson.M{"target_roles": targetAllRoles},
				bson.M{"target_roles": bson.M{"$size": 0}},
				bson.M{"target_roles": bson.M{"$exists": false}},
			}},
			bson.M{"$or": bson.A{
				bson.M{"expires_at": bson.M{"$exists": false}},
				bson.M{"expires_at": nil},
				bson.M{"expires_at": bson.M{"$gt": now}},
			}},
		},
	}
}

func (d announcementDoc) toActivity() domain.ActivityEvent {
	return domain.ActivityEvent{
		ID:          "announcement-" + d.ID.Hex(),
		Title:       d.Title,
		Description: d.Content,
		Timestamp:   d.PublishedAt,
		Severity:    severityFor(d.Type, d.Priority),
		ActionURL:   d.ActionURL,
	}
}

func severityFor(kind, priority string) domain.Severity {
	switch {
	case kind == "emergency" || priority == "urgent":
		return domain.SeverityError
	case priority == "high":
		return domain.SeverityWarning
	}
	return domain.SeverityInfo
}
