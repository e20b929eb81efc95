// Package cache provides the generic [Cache] used for session languages and
// compiled locale files, with an in-process [Memory] backend and a [Redis]
// backend for multi-instance deployments.
//
// [GetOrSet] loads missing entries once per key even under concurrent
// misses:
//
//	files := cache.NewMemory[map[string]any]()
//	data, err := cache.GetOrSet(ctx, files, "shop.en", func(ctx context.Context) (map[string]any, time.Duration, error) {
//		return load(ctx, "shop", "en")
//	})
package cache
