// cachebench 对比食材前缀搜索在直连数据库与 redis 目录缓存下的延迟
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/foodgram/config"
	"github.com/d60-Lab/foodgram/internal/cache"
	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/service"
	"github.com/d60-Lab/foodgram/pkg/database"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

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

func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer func() { _ = database.Close(db) }()

	ingredientCount := 20000
	if s := os.Getenv("N"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			ingredientCount = n
		}
	}
	requests := 9000

	fmt.Println("Setting up test data...")
	rng := rand.New(rand.NewSource(42))
	rows := make([]model.Ingredient, 0, ingredientCount)
	seen := make(map[string]struct{}, ingredientCount)
	for len(rows) < ingredientCount {
		name := randomWord(rng, 4+rng.Intn(8))
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		rows = append(rows, model.Ingredient{Name: name, MeasurementUnit: "g"})
	}
	mustDo(db.Where("1 = 1").Delete(&model.RecipeIngredient{}).Error)
	mustDo(db.Where("1 = 1").Delete(&model.Ingredient{}).Error)
	mustDo(db.CreateInBatches(&rows, 1000).Error)
	fmt.Printf("Test data ready: %d ingredients\n", ingredientCount)

	// 前缀分布偏向短前缀，模拟输入框联想
	prefixes := make([]string, requests)
	for i := range prefixes {
		prefixes[i] = randomWord(rng, 1+rng.Intn(3))
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = cfg.Redis.Addr
	}
	client := must(cache.Connect(ctx, addr, cfg.Redis.Password, cfg.Redis.DB))
	defer client.Close()

	repos := service.NewRepositories(db)
	redisCatalog := cache.NewRedisCatalog(client, cfg.Redis.CatalogTTL)

	noCache := runScenario(ctx, service.NewCatalogService(repos.Tags, repos.Ingredients, cache.Passthrough{}), prefixes, false, client)
	cached := runScenario(ctx, service.NewCatalogService(repos.Tags, repos.Ingredients, redisCatalog), prefixes, true, client)
	hits, misses := redisCatalog.Stats()

	fmt.Printf("\nIngredient prefix search latency (%d req, %d ingredients)\n", requests, ingredientCount)
	fmt.Printf("%-12s avg=%v p95=%v p99=%v\n", "No cache", avg(noCache.durations), pct(noCache.durations, 0.95), pct(noCache.durations, 0.99))
	fmt.Printf("%-12s avg=%v p95=%v p99=%v hits=%d misses=%d cache_keys=%d\n", "Redis cache",
		avg(cached.durations), pct(cached.durations, 0.95), pct(cached.durations, 0.99), hits, misses, cached.cacheKeys)
}

type scenarioResult struct {
	durations []time.Duration
	cacheKeys int
}

func runScenario(ctx context.Context, svc service.CatalogService, prefixes []string, warm bool, client *redis.Client) scenarioResult {
	client.FlushAll(ctx)

	if warm {
		fmt.Print("  Warming cache...")
		for _, p := range prefixes {
			must(svc.Ingredients(ctx, p))
		}
		fmt.Println(" done")
	}

	fmt.Print("  Running benchmark...")
	out := make([]time.Duration, 0, len(prefixes))
	for _, p := range prefixes {
		start := time.Now()
		must(svc.Ingredients(ctx, p))
		out = append(out, time.Since(start))
	}
	fmt.Println(" done")

	keys, _ := client.Keys(ctx, "catalog:*").Result()
	return scenarioResult{durations: out, cacheKeys: len(keys)}
}

func randomWord(rng *rand.Rand, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return b.String()
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
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
