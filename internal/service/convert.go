package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dormhop/backend/internal/dto"
	"dormhop/backend/internal/model"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// validID ids are UUIDs; anything else can never match a row
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toRoomResponse(room *model.Room) dto.RoomResponse {
	amenities := []string(room.Amenities)
	if amenities == nil {
		amenities = []string{}
	}
	return dto.RoomResponse{
		ID:          room.RoomID,
		Dorm:        room.Dorm,
		RoomNumber:  room.RoomNumber,
		Occupancy:   room.Occupancy,
		Amenities:   amenities,
		Description: room.Description,
		Gender:      room.Gender,
		UpdatedAt:   formatTime(room.UpdatedAt),
	}
}

func toFeedItem(room *model.Room) dto.RoomFeedItem {
	item := dto.RoomFeedItem{RoomResponse: toRoomResponse(room)}
	if room.Owner != nil {
		item.Owner = dto.OwnerSummary{
			FullName:  room.Owner.FullName,
			ClassYear: room.Owner.ClassYear,
		}
	}
	return item
}

func toUserResponse(user *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:           user.UserID,
		Email:        user.Email,
		FullName:     user.FullName,
		ClassYear:    user.ClassYear,
		Gender:       user.Gender,
		CreatedAt:    formatTime(user.CreatedAt),
		IsRoomListed: user.IsRoomListed,
	}
	if user.Room != nil {
		room := toRoomResponse(user.Room)
		resp.CurrentRoom = &room
	}
	return resp
}

// toKnockResponse expects FromUser, ToRoom and ToRoom.Owner loaded.
// Emails are only exposed once the knock is accepted.
func toKnockResponse(k *model.Knock) dto.KnockResponse {
	resp := dto.KnockResponse{
		ID:        k.KnockID,
		Status:    k.Status,
		CreatedAt: formatTime(k.CreatedAt),
	}
	if k.FromUser != nil {
		resp.FromUser = dto.UserSummary{
			ID:        k.FromUser.UserID,
			FullName:  k.FromUser.FullName,
			ClassYear: k.FromUser.ClassYear,
			Gender:    k.FromUser.Gender,
		}
	}
	if k.ToRoom != nil {
		resp.ToRoom = toRoomResponse(k.ToRoom)
	}
	if k.AcceptedAt != nil {
		at := formatTime(*k.AcceptedAt)
		resp.AcceptedAt = &at
	}
	if k.Status == model.KnockAccepted && k.FromUser != nil && k.ToRoom != nil && k.ToRoom.Owner != nil {
		resp.Contacts = &dto.KnockContacts{
			RequesterEmail: k.FromUser.Email,
			OwnerEmail:     k.ToRoom.Owner.Email,
		}
	}
	return resp
}
