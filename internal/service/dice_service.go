// Package service 包含了应用的业务逻辑层。
package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"rollingdice-go/internal/dice"
	"rollingdice-go/internal/model"
	"rollingdice-go/internal/repository"
	"rollingdice-go/pkg/events"
	"rollingdice-go/pkg/log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "rollingdice-go/internal/service"

var (
	// ErrIntentional 表示请求参数 error=true 触发的故意错误。
	ErrIntentional = errors.New("intentional error triggered by request parameter")
	// ErrInterrupted 表示在 sleep 或 loop 期间请求被取消。
	ErrInterrupted = errors.New("roll interrupted")
	// ErrInvalidValue 表示指定的出目不在 1 到 6 之间。
	ErrInvalidValue = errors.New("the dice value must be between 1 and 6")
	// ErrInvalidDuration 表示 sleep/loop 的秒数超出 time.Duration 的表示范围。
	ErrInvalidDuration = errors.New("the duration is too large")
)

// MaxDurationSeconds 是 sleep/loop 可接受的最大秒数。
const MaxDurationSeconds = math.MaxInt64 / int64(time.Second)

// RollRequest 是一次掷骰的可选参数，nil 表示未指定。
type RollRequest struct {
	Sleep *int  // 掷骰前休眠的秒数
	Loop  *int  // 掷骰前循环读取文件的秒数
	Error *bool // 为 true 时故意失败
	Value *int  // 强制使用的出目
}

// EventPublisher 发布已持久化的掷骰事件。
type EventPublisher interface {
	PublishRoll(ctx context.Context, event events.RollEvent) error
}

// DiceService 定义了掷骰与出目履历的业务逻辑接口。
type DiceService interface {
	RollDice(ctx context.Context, req RollRequest) (int, error)
	ListDice(ctx context.Context) ([]model.Dice, error)
	GetStats(ctx context.Context) (model.RollStats, error)
}

type diceService struct {
	repo      repository.DiceRepository
	stats     repository.RollStatsRepository
	publisher EventPublisher
	roller    dice.Roller
	loopFile  string
	// unit 是 sleep/loop 参数的时间单位，生产环境为秒
	unit time.Duration
	now  func() time.Time
}

// NewDiceService 创建一个新的 DiceService。
// loopFile 是 loop 处理中反复读取首行的文件。
func NewDiceService(
	repo repository.DiceRepository,
	stats repository.RollStatsRepository,
	publisher EventPublisher,
	roller dice.Roller,
	loopFile string,
) DiceService {
	return &diceService{
		repo:      repo,
		stats:     stats,
		publisher: publisher,
		roller:    roller,
		loopFile:  loopFile,
		unit:      time.Second,
		now:       time.Now,
	}
}

// RollDice 依次执行 sleep、loop、错误注入，然后决定出目并保存。
// 只有在出目确定之后才会写入数据库，失败或取消时不会留下记录。
func (s *diceService) RollDice(ctx context.Context, req RollRequest) (int, error) {
	log.Op("DiceService.RollDice")
	log.Infow("[DiceService] The received parameters are",
		"sleep", optString(req.Sleep),
		"loop", optString(req.Loop),
		"error", optString(req.Error),
		"value", optString(req.Value),
	)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "RollDice")
	defer span.End()

	value, err := s.rollDice(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	span.SetAttributes(attribute.Int("roll.value", value), attribute.Bool("roll.forced", req.Value != nil))
	return value, nil
}

func (s *diceService) rollDice(ctx context.Context, req RollRequest) (int, error) {
	if err := s.sleep(ctx, req.Sleep); err != nil {
		return 0, err
	}
	if err := s.loop(ctx, req.Loop); err != nil {
		return 0, err
	}
	if err := s.injectError(req.Error); err != nil {
		return 0, err
	}

	var value int
	if req.Value != nil {
		if !dice.Valid(*req.Value) {
			return 0, fmt.Errorf("%w: %d", ErrInvalidValue, *req.Value)
		}
		value = *req.Value
		log.Infof("[DiceService] The fixed value of dice is: '%d'", value)
	} else {
		value = s.roller.Roll()
		log.Infof("[DiceService] The value of dice is: '%d'", value)
	}

	if err := s.repo.Insert(ctx, value); err != nil {
		log.Error("[DiceService] 保存出目失败", err)
		return 0, fmt.Errorf("保存出目失败: %w", err)
	}

	s.afterRoll(ctx, value, req.Value != nil)
	return value, nil
}

// sleep 休眠指定秒数，ctx 取消时立即返回 ErrInterrupted。
func (s *diceService) sleep(ctx context.Context, seconds *int) error {
	log.Op("DiceService.sleep")
	if seconds == nil {
		return nil
	}
	if *seconds <= 0 {
		log.Warnf("[DiceService] The processing of sleep was skipped, because the value of parameter was not a positive integer: '%d'", *seconds)
		return nil
	}

	d, err := s.duration("sleep", *seconds)
	if err != nil {
		return err
	}

	log.Warnf("[DiceService] !!! Starting sleep for: %.2f seconds !!!", float64(*seconds))
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		log.Warnf("[DiceService] !!! Sleep finished !!!")
		return nil
	case <-ctx.Done():
		log.Error("[DiceService] The sleep was interrupted", ctx.Err())
		return fmt.Errorf("%w during sleep: %v", ErrInterrupted, ctx.Err())
	}
}

// loop 在指定秒数内反复读取 loopFile 的首行，每经过总时长的 20% 输出一次进度。
func (s *diceService) loop(ctx context.Context, seconds *int) error {
	log.Op("DiceService.loop")
	if seconds == nil {
		return nil
	}
	if *seconds <= 0 {
		log.Warnf("[DiceService] The processing of loop was skipped, because the value of parameter was not a positive integer: '%d'", *seconds)
		return nil
	}

	total, err := s.duration("loop", *seconds)
	if err != nil {
		return err
	}
	log.Warnf("[DiceService] !!! Starting loop for: %.2f seconds !!!", float64(*seconds))

	start := s.now()
	end := start.Add(total)
	interval := total / 5
	nextLog := start.Add(interval)

	var line string
	count := 0
	readFailed := false
	for s.now().Before(end) {
		if err := ctx.Err(); err != nil {
			log.Error("[DiceService] The loop was interrupted", err)
			return fmt.Errorf("%w during loop: %v", ErrInterrupted, err)
		}

		l, err := readFirstLine(s.loopFile)
		if err != nil {
			if !readFailed {
				log.Errorf("[DiceService] Failed to load a file: '%v'", err)
				readFailed = true
			}
		} else {
			line = l
		}
		count++

		current := s.now()
		if !current.Before(nextLog) && current.Before(end) {
			log.Warnf("[DiceService] The progress of loop is: %.2f/%.2f seconds (loop count: %d)",
				current.Sub(start).Seconds()/s.unit.Seconds(), float64(*seconds), count)
			nextLog = nextLog.Add(interval)
		}
	}

	log.Warnf("[DiceService] !!! Loop finished !!! (Total executions: %d) : The read text is: '%s'", count, line)
	return nil
}

// duration 将秒数换算为 time.Duration，超出范围时返回 ErrInvalidDuration 而不是溢出。
func (s *diceService) duration(name string, seconds int) (time.Duration, error) {
	if int64(seconds) > MaxDurationSeconds || int64(seconds) > math.MaxInt64/int64(s.unit) {
		log.Warnf("[DiceService] The value of parameter %s is too large: '%d'", name, seconds)
		return 0, fmt.Errorf("%w: %s=%d", ErrInvalidDuration, name, seconds)
	}
	return time.Duration(seconds) * s.unit, nil
}

// injectError 在 error=true 时返回 ErrIntentional。
func (s *diceService) injectError(flag *bool) error {
	log.Op("DiceService.injectError")
	if flag != nil && *flag {
		log.Errorf("[DiceService] !!! Intentional exception triggered: '%s' !!!", ErrIntentional)
		return ErrIntentional
	}
	return nil
}

// afterRoll 记录统计并发布事件，失败只记录日志，不影响掷骰结果。
func (s *diceService) afterRoll(ctx context.Context, value int, forced bool) {
	if err := s.stats.Increment(ctx, value); err != nil {
		log.Warnf("[DiceService] 更新出目统计失败: %v", err)
	}
	event := events.RollEvent{Value: value, Forced: forced, RolledAt: s.now()}
	if err := s.publisher.PublishRoll(ctx, event); err != nil {
		log.Warnf("[DiceService] 发布掷骰事件失败: %v", err)
	}
}

// ListDice 返回全部出目履历，按 id 降序。
func (s *diceService) ListDice(ctx context.Context) ([]model.Dice, error) {
	log.Op("DiceService.ListDice")
	return s.repo.FindAllOrderByIDDesc(ctx)
}

// GetStats 返回各出目的统计次数。
func (s *diceService) GetStats(ctx context.Context) (model.RollStats, error) {
	log.Op("DiceService.GetStats")
	return s.stats.Get(ctx)
}

func readFirstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func optString[T any](p *T) string {
	if p == nil {
		return "<absent>"
	}
	return fmt.Sprint(*p)
}
