package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/d60-Lab/foodgram/internal/model"
)

func BenchmarkFollowWrite(b *testing.B) {
	db := setupDB(b)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	// 预创建部分用户
	users := make([]model.User, 1000)
	for i := range users {
		users[i] = model.User{Username: fmt.Sprintf("u%04d", i), Email: fmt.Sprintf("u%04d@example.com", i), PasswordHash: "p"}
	}
	if err := db.Create(&users).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rng.Intn(len(users))].ID
		to := users[rng.Intn(len(users))].ID
		if from == to {
			continue
		}
		_ = followRepo.Create(ctx, from, to)
	}
}

func BenchmarkListAuthors(b *testing.B) {
	db := setupDB(b)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	// 构造：u0 关注 N 个作者
	const N = 2000
	u0 := seedUser(b, db, "u0")
	for i := 1; i <= N; i++ {
		a := seedUser(b, db, fmt.Sprintf("author%05d", i))
		_ = followRepo.Create(ctx, u0.ID, a.ID)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = followRepo.ListAuthors(ctx, u0.ID, 0, 50)
	}
}
