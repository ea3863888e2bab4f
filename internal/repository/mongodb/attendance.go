package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type attendanceDocument struct {
	ID            string     `bson:"_id"`
	EmployeeID    string     `bson:"employee_id"`
	Date          time.Time  `bson:"date"`
	CheckIn       *time.Time `bson:"check_in,omitempty"`
	CheckInPhoto  *string    `bson:"check_in_photo,omitempty"`
	CheckOut      *time.Time `bson:"check_out,omitempty"`
	CheckOutPhoto *string    `bson:"check_out_photo,omitempty"`
	TotalHours    *float64   `bson:"total_hours,omitempty"`
	Status        string     `bson:"status"`
	Remarks       *string    `bson:"remarks,omitempty"`
	CreatedAt     time.Time  `bson:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at"`
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (d attendanceDocument) toEntity() attendance.Attendance {
	return attendance.Attendance{
		ID:            d.ID,
		EmployeeID:    d.EmployeeID,
		Date:          d.Date.UTC(),
		CheckIn:       utcPtr(d.CheckIn),
		CheckInPhoto:  d.CheckInPhoto,
		CheckOut:      utcPtr(d.CheckOut),
		CheckOutPhoto: d.CheckOutPhoto,
		TotalHours:    d.TotalHours,
		Status:        attendance.Status(d.Status),
		Remarks:       d.Remarks,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

type attendanceRepository struct {
	collection *mongo.Collection
}

func NewAttendanceRepository(db *database.MongoDB) attendance.AttendanceRepository {
	return &attendanceRepository{collection: db.Collection(AttendanceCollection)}
}

// OpenSession implements attendance.AttendanceRepository.
func (r *attendanceRepository) OpenSession(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	status := record.Status
	if status == "" {
		status = attendance.StatusOnTime
	}

	// Matches a record without check-in or none at all; an existing checked-in
	// record makes the upsert collide with the unique (employee_id, date) index.
	filter := bson.D{
		{Key: "employee_id", Value: record.EmployeeID},
		{Key: "date", Value: record.Date},
		{Key: "check_in", Value: bson.D{{Key: "$exists", Value: false}}},
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "check_in", Value: record.CheckIn},
			{Key: "check_in_photo", Value: record.CheckInPhoto},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: record.ID},
			{Key: "status", Value: string(status)},
			{Key: "created_at", Value: now},
		}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc attendanceDocument
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, database.Unavailable(fmt.Errorf("failed to open attendance session: %w", err))
	}

	return doc.toEntity(), nil
}

// CloseSession implements attendance.AttendanceRepository.
func (r *attendanceRepository) CloseSession(ctx context.Context, employeeID string, date time.Time, checkOut time.Time, photoURL string) (attendance.Attendance, error) {
	filter := bson.D{
		{Key: "employee_id", Value: employeeID},
		{Key: "date", Value: date},
		{Key: "check_in", Value: bson.D{{Key: "$exists", Value: true}, {Key: "$lt", Value: checkOut}}},
		{Key: "check_out", Value: bson.D{{Key: "$exists", Value: false}}},
	}

	// Pipeline update so total_hours is derived from the stored check_in in
	// the same write.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "check_out", Value: checkOut},
			{Key: "check_out_photo", Value: bson.D{{Key: "$literal", Value: photoURL}}},
			{Key: "total_hours", Value: bson.D{{Key: "$divide", Value: bson.A{
				bson.D{{Key: "$subtract", Value: bson.A{checkOut, "$check_in"}}},
				float64(time.Hour.Milliseconds()),
			}}}},
			{Key: "updated_at", Value: time.Now().UTC().Truncate(time.Millisecond)},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc attendanceDocument
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return attendance.Attendance{}, attendance.ErrNoOpenSession
		}
		return attendance.Attendance{}, database.Unavailable(fmt.Errorf("failed to close attendance session: %w", err))
	}

	return doc.toEntity(), nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	var doc attendanceDocument
	err := r.collection.FindOne(ctx, bson.M{"employee_id": employeeID, "date": date}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, database.Unavailable(fmt.Errorf("failed to find attendance: %w", err))
	}

	a := doc.toEntity()
	return &a, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	var doc attendanceDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, database.Unavailable(fmt.Errorf("failed to find attendance: %w", err))
	}
	return doc.toEntity(), nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]attendance.Attendance, error) {
	return r.find(ctx, bson.M{"employee_id": employeeID})
}

// ListByEmployeeIDs implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]attendance.Attendance, error) {
	if len(employeeIDs) == 0 {
		return []attendance.Attendance{}, nil
	}
	return r.find(ctx, bson.M{"employee_id": bson.M{"$in": employeeIDs}})
}

func (r *attendanceRepository) find(ctx context.Context, filter bson.M) ([]attendance.Attendance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "employee_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, database.Unavailable(fmt.Errorf("failed to list attendances: %w", err))
	}
	defer cursor.Close(ctx)

	var docs []attendanceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, database.Unavailable(fmt.Errorf("failed to decode attendances: %w", err))
	}

	records := make([]attendance.Attendance, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.toEntity())
	}
	return records, nil
}

// UpdateStatus implements attendance.AttendanceRepository.
func (r *attendanceRepository) UpdateStatus(ctx context.Context, id string, status attendance.Status, remarks *string) (attendance.Attendance, error) {
	set := bson.D{
		{Key: "status", Value: string(status)},
		{Key: "updated_at", Value: time.Now().UTC().Truncate(time.Millisecond)},
	}
	var update bson.D
	if remarks != nil {
		set = append(set, bson.E{Key: "remarks", Value: *remarks})
		update = bson.D{{Key: "$set", Value: set}}
	} else {
		update = bson.D{
			{Key: "$set", Value: set},
			{Key: "$unset", Value: bson.D{{Key: "remarks", Value: ""}}},
		}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc attendanceDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, database.Unavailable(fmt.Errorf("failed to update attendance status: %w", err))
	}

	return doc.toEntity(), nil
}
