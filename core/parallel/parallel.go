// Package parallel は要素単位の処理をCPUコア数に応じて分割実行するヘルパーを提供します。
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize は items 件の処理をCPUコア数に応じて分割し、
// 各区間 [start, end) に対して fn を並列実行します。
// fn はインデックスで区切られた自身の区間にのみ書き込むこと。
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// 各ワーカーが担当する件数（切り上げ除算）
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold は件数が threshold を超える場合のみ並列化します。
// 閾値以下では逐次実行され、goroutine起動コストを回避します。
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
