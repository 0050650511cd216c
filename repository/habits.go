package repository

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HabitsRepo struct {
	MongoCollection *mongo.Collection
}

// Retrieves MongoDB collection for habits
func GetHabitsRepo(client *mongo.Client) *HabitsRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("HABITS_COLLECTION", "habits")
	return &HabitsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// IsSchemaMissing reports whether an error indicates the habits collection
// (or its backing namespace) does not exist, which should send the UI to a
// setup state instead of a generic error banner.
func IsSchemaMissing(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 26 { // NamespaceNotFound
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "ns not found") || strings.Contains(msg, "does not exist")
}

// FetchHabits returns the full habit list for a user, newest first.
func (r *HabitsRepo) FetchHabits(ctx context.Context, userID string) ([]model.Habit, error) {
	timer := utils.TrackDBOperation("find", "habits")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "habit_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var habits []model.Habit
	if err = cursor.All(ctx, &habits); err != nil {
		utils.TrackError("database", "habit_decode_failed")
		return nil, err
	}

	// completed_dates has a non-null default in the column contract
	for i := range habits {
		if habits[i].CompletedDates == nil {
			habits[i].CompletedDates = []string{}
		}
	}
	return habits, nil
}

// InsertHabit adds a new habit row. The id and creation timestamp are
// assigned here if the caller left them empty.
func (r *HabitsRepo) InsertHabit(ctx context.Context, habit *model.Habit) error {
	timer := utils.TrackDBOperation("insert", "habits")
	defer timer.ObserveDuration()

	if habit.UserID == "" {
		utils.TrackError("database", "missing_user_id")
		return errors.New("user ID is required")
	}
	if habit.CompletedDates == nil {
		habit.CompletedDates = []string{}
	}
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}

	_, err := r.MongoCollection.InsertOne(ctx, habit)
	if err != nil {
		utils.TrackError("database", "habit_creation_failed")
		return err
	}
	return nil
}

// UpdateDetails changes name, goal and color. The filter is scoped by both
// id and owning user as a defense-in-depth match for row-level authorization;
// it never touches the completion set.
func (r *HabitsRepo) UpdateDetails(ctx context.Context, habitID, userID, name, goal, color string) error {
	timer := utils.TrackDBOperation("update", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     habitID,
		"user_id": userID,
	}
	update := bson.M{
		"$set": bson.M{
			"name":  name,
			"goal":  goal,
			"color": color,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "habit_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "habit_not_found")
		return errors.New("habit not found")
	}
	return nil
}

// UpdateCompletedDates replaces the completion set wholesale for one habit.
func (r *HabitsRepo) UpdateCompletedDates(ctx context.Context, habitID, userID string, dates []string) error {
	timer := utils.TrackDBOperation("update", "habits")
	defer timer.ObserveDuration()

	if dates == nil {
		dates = []string{}
	}
	filter := bson.M{
		"_id":     habitID,
		"user_id": userID,
	}
	update := bson.M{
		"$set": bson.M{"completed_dates": dates},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "habit_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "habit_not_found")
		return errors.New("habit not found")
	}
	return nil
}

// DeleteHabit removes a habit scoped by id and owning user. Deletion is
// terminal; there is no soft-delete.
func (r *HabitsRepo) DeleteHabit(ctx context.Context, habitID, userID string) error {
	timer := utils.TrackDBOperation("delete", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     habitID,
		"user_id": userID,
	}

	result, err := r.MongoCollection.DeleteOne(ctx, filter)
	if err != nil {
		utils.TrackError("database", "habit_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		utils.TrackError("database", "habit_not_found")
		return errors.New("habit not found")
	}
	return nil
}

// DeleteAllUserHabits removes every habit a user owns. Used by account
// deletion only.
func (r *HabitsRepo) DeleteAllUserHabits(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "habits")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "habit_deletion_failed")
		return 0, err
	}
	return result.DeletedCount, nil
}
