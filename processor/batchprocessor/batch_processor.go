// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package batchprocessor accumulates items and sends them downstream in
// batches. A batch is sent out when either of the following occurs:
// - the accumulated item count reaches cfg.SendBatchSize (the batch sent
//   contains exactly SendBatchSize items, the remainder stays accumulated)
// - cfg.Timeout elapses since the previous send (the batch contains whatever
//   accumulated)
// On shutdown any partial batch is flushed exactly once.
package batchprocessor

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/consumer"
	"github.com/telepipe/telepipe/model/pdata"
)

type batchProcessor struct {
	timer         *time.Timer
	timeout       time.Duration
	sendBatchSize int

	newItem chan interface{}
	batch   batch

	shutdownC  chan struct{}
	goroutines sync.WaitGroup

	exportCtx context.Context
	logger    *zap.Logger
}

// batch is the per-signal accumulation behind the shared processing loop.
type batch interface {
	// export sends up to sendLimit items downstream; zero limit sends all.
	export(ctx context.Context, sendLimit int) error

	// itemCount returns the number of accumulated items.
	itemCount() int

	// add accumulates a container.
	add(item interface{})
}

var _ consumer.Traces = (*batchProcessor)(nil)
var _ consumer.Metrics = (*batchProcessor)(nil)
var _ consumer.Logs = (*batchProcessor)(nil)

func newBatchProcessor(set component.TelemetrySettings, name string, cfg *Config, batch batch) *batchProcessor {
	return &batchProcessor{
		timeout:       cfg.Timeout,
		sendBatchSize: cfg.SendBatchSize,
		newItem:       make(chan interface{}, runtime.NumCPU()),
		batch:         batch,
		shutdownC:     make(chan struct{}, 1),
		exportCtx:     context.Background(),
		logger:        set.Logger,
	}
}

func (bp *batchProcessor) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{MutatesData: true}
}

// Start launches the processing loop.
func (bp *batchProcessor) Start(context.Context, component.Host) error {
	bp.goroutines.Add(1)
	go bp.startProcessingCycle()
	return nil
}

// Shutdown drains the intake channel and flushes any partial batch.
func (bp *batchProcessor) Shutdown(context.Context) error {
	close(bp.shutdownC)
	bp.goroutines.Wait()
	return nil
}

func (bp *batchProcessor) startProcessingCycle() {
	defer bp.goroutines.Done()
	bp.timer = time.NewTimer(bp.timeout)
	for {
		select {
		case <-bp.shutdownC:
		DONE:
			for {
				select {
				case item := <-bp.newItem:
					bp.processItem(item)
				default:
					break DONE
				}
			}
			if bp.batch.itemCount() > 0 {
				bp.sendItems(0)
			}
			return
		case item := <-bp.newItem:
			if item == nil {
				continue
			}
			bp.processItem(item)
		case <-bp.timer.C:
			if bp.batch.itemCount() > 0 {
				bp.sendItems(0)
			}
			bp.resetTimer()
		}
	}
}

func (bp *batchProcessor) processItem(item interface{}) {
	bp.batch.add(item)
	sent := false
	for bp.batch.itemCount() >= bp.sendBatchSize {
		sent = true
		bp.sendItems(bp.sendBatchSize)
	}

	if sent {
		bp.stopTimer()
		bp.resetTimer()
	}
}

func (bp *batchProcessor) stopTimer() {
	if !bp.timer.Stop() {
		<-bp.timer.C
	}
}

func (bp *batchProcessor) resetTimer() {
	bp.timer.Reset(bp.timeout)
}

func (bp *batchProcessor) sendItems(sendLimit int) {
	if err := bp.batch.export(bp.exportCtx, sendLimit); err != nil {
		bp.logger.Warn("Sender failed", zap.Error(err))
	}
}

// ConsumeTraces implements consumer.Traces.
func (bp *batchProcessor) ConsumeTraces(_ context.Context, td pdata.Traces) error {
	bp.newItem <- td
	return nil
}

// ConsumeMetrics implements consumer.Metrics.
func (bp *batchProcessor) ConsumeMetrics(_ context.Context, md pdata.Metrics) error {
	bp.newItem <- md
	return nil
}

// ConsumeLogs implements consumer.Logs.
func (bp *batchProcessor) ConsumeLogs(_ context.Context, ld pdata.Logs) error {
	bp.newItem <- ld
	return nil
}

type batchTraces struct {
	nextConsumer consumer.Traces
	traceData    pdata.Traces
	spanCount    int
}

func newBatchTraces(nextConsumer consumer.Traces) *batchTraces {
	return &batchTraces{nextConsumer: nextConsumer, traceData: pdata.NewTraces()}
}

func (bt *batchTraces) add(item interface{}) {
	td := item.(pdata.Traces)
	newSpanCount := td.SpanCount()
	if newSpanCount == 0 {
		return
	}
	bt.spanCount += newSpanCount
	td.MoveAndAppendTo(&bt.traceData)
}

func (bt *batchTraces) export(ctx context.Context, sendLimit int) error {
	var req pdata.Traces
	if sendLimit > 0 && bt.spanCount > sendLimit {
		req = bt.traceData.Split(sendLimit)
		bt.spanCount -= sendLimit
	} else {
		req = bt.traceData
		bt.traceData = pdata.NewTraces()
		bt.spanCount = 0
	}
	return bt.nextConsumer.ConsumeTraces(ctx, req)
}

func (bt *batchTraces) itemCount() int {
	return bt.spanCount
}

type batchMetrics struct {
	nextConsumer   consumer.Metrics
	metricData     pdata.Metrics
	dataPointCount int
}

func newBatchMetrics(nextConsumer consumer.Metrics) *batchMetrics {
	return &batchMetrics{nextConsumer: nextConsumer, metricData: pdata.NewMetrics()}
}

func (bm *batchMetrics) add(item interface{}) {
	md := item.(pdata.Metrics)
	newDataPointCount := md.DataPointCount()
	if newDataPointCount == 0 {
		return
	}
	bm.dataPointCount += newDataPointCount
	md.MoveAndAppendTo(&bm.metricData)
}

func (bm *batchMetrics) export(ctx context.Context, sendLimit int) error {
	var req pdata.Metrics
	if sendLimit > 0 && bm.dataPointCount > sendLimit {
		req = bm.metricData.Split(sendLimit)
		bm.dataPointCount -= sendLimit
	} else {
		req = bm.metricData
		bm.metricData = pdata.NewMetrics()
		bm.dataPointCount = 0
	}
	return bm.nextConsumer.ConsumeMetrics(ctx, req)
}

func (bm *batchMetrics) itemCount() int {
	return bm.dataPointCount
}

type batchLogs struct {
	nextConsumer consumer.Logs
	logData      pdata.Logs
	logCount     int
}

func newBatchLogs(nextConsumer consumer.Logs) *batchLogs {
	return &batchLogs{nextConsumer: nextConsumer, logData: pdata.NewLogs()}
}

func (bl *batchLogs) add(item interface{}) {
	ld := item.(pdata.Logs)
	newLogsCount := ld.LogRecordCount()
	if newLogsCount == 0 {
		return
	}
	bl.logCount += newLogsCount
	ld.MoveAndAppendTo(&bl.logData)
}

func (bl *batchLogs) export(ctx context.Context, sendLimit int) error {
	var req pdata.Logs
	if sendLimit > 0 && bl.logCount > sendLimit {
		req = bl.logData.Split(sendLimit)
		bl.logCount -= sendLimit
	} else {
		req = bl.logData
		bl.logData = pdata.NewLogs()
		bl.logCount = 0
	}
	return bl.nextConsumer.ConsumeLogs(ctx, req)
}

func (bl *batchLogs) itemCount() int {
	return bl.logCount
}
