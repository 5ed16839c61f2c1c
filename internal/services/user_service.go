package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"promptdeck-backend/internal/database"
	"promptdeck-backend/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

const userCacheDuration = time.Hour

// FindUserByID loads a user, consulting the Redis cache first. The cache
// only ever holds data the user could read about themselves.
func FindUserByID(userID uint) (models.User, error) {
	cacheKey := fmt.Sprintf("user:%d", userID)
	if database.RedisClient != nil {
		val, err := database.RedisClient.Get(database.Ctx, cacheKey).Result()
		if err == nil {
			var user models.User
			if err := json.Unmarshal([]byte(val), &user); err == nil {
				return user, nil
			}
		}
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return user, ErrUserNotFound
	}

	if database.RedisClient != nil {
		if data, err := json.Marshal(user); err == nil {
			database.RedisClient.Set(database.Ctx, cacheKey, data, userCacheDuration)
		}
	}

	return user, nil
}
