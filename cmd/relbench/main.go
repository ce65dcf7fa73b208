// relbench 压测订阅写入与订阅列表查询：N 个读者并发关注同一作者，
// 再测量分页读取订阅（含作者最新菜谱）的延迟。
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/foodgram/config"
	"github.com/d60-Lab/foodgram/internal/media"
	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/service"
	"github.com/d60-Lab/foodgram/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer func() { _ = database.Close(db) }()

	repos := service.NewRepositories(db)
	relSvc := service.NewRelationshipService(repos.Follows, repos.Users, repos.Recipes, media.NewStore(cfg.Media.Root, cfg.Media.URL, 0, 0))
	ctx := context.Background()

	N := envInt("N", 10000)
	CONC := envInt("CONC", 1)
	PAGE := envInt("PAGE", 50)
	RECIPES := envInt("RECIPES", 3)

	// 一个作者 + N 个读者
	run := uuid.NewString()[:8]
	author := model.User{Username: "author_" + run, Email: "author_" + run + "@example.com", PasswordHash: "x"}
	mustDo(db.Create(&author).Error)
	for i := 0; i < RECIPES; i++ {
		rec := model.Recipe{AuthorID: author.ID, Name: fmt.Sprintf("bench %d", i), Text: "-", CookingTime: 1, Image: "recipes/bench.png"}
		mustDo(db.Omit("Author", "Tags", "Ingredients").Create(&rec).Error)
	}

	readers := make([]model.User, N)
	for i := range readers {
		id := uuid.NewString()[:12]
		readers[i] = model.User{Username: "r_" + id, Email: id + "@example.com", PasswordHash: "x"}
	}
	mustDo(db.CreateInBatches(&readers, 1000).Error)

	workers := CONC
	if workers > N {
		workers = N
	}
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)

	latCh := make(chan time.Duration, N)
	done := make(chan struct{}, workers)
	failed := 0
	errCh := make(chan error, N)
	t0 := time.Now()
	for w := 0; w < workers; w++ {
		go func() {
			for i := range feed {
				st := time.Now()
				if _, err := relSvc.Subscribe(ctx, readers[i].ID, author.ID, 0); err != nil {
					errCh <- err
				}
				latCh <- time.Since(st)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}
	close(latCh)
	close(errCh)
	writeDur := time.Since(t0)
	for range errCh {
		failed++
	}
	writes := make([]time.Duration, 0, N)
	for d := range latCh {
		writes = append(writes, d)
	}

	// 重复关注必须被拒绝
	_, dupErr := relSvc.Subscribe(ctx, readers[0].ID, author.ID, 0)

	reads := make([]time.Duration, 0, 100)
	for i := 0; i < 100 && i < N; i++ {
		st := time.Now()
		_, _ = relSvc.ListSubscriptions(ctx, readers[i].ID, service.PageRequest{Page: 1, Limit: PAGE}, RECIPES)
		reads = append(reads, time.Since(st))
	}

	q0 := time.Now()
	authors, total, _ := repos.Follows.ListAuthors(ctx, readers[0].ID, 0, PAGE)
	listDur := time.Since(q0)

	fmt.Printf("N=%d, CONC=%d, PAGE=%d, RECIPES=%d\n", N, CONC, PAGE, RECIPES)
	fmt.Printf("Subscribe total: %v, per op: %v, p50: %v, p95: %v, p99: %v, failed: %d\n",
		writeDur, writeDur/time.Duration(N), pct(writes, 0.50), pct(writes, 0.95), pct(writes, 0.99), failed)
	fmt.Printf("Duplicate subscribe rejected: %v\n", dupErr != nil)
	fmt.Printf("ListSubscriptions p50: %v, p95: %v, p99: %v\n", pct(reads, 0.50), pct(reads, 0.95), pct(reads, 0.99))
	fmt.Printf("ListAuthors(%d) latency: %v (rows=%d, total=%d)\n", PAGE, listDur, len(authors), total)
}
