package zone

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evdnx/zonerecovery/logger"
	"github.com/evdnx/zonerecovery/metrics"
	"github.com/evdnx/zonerecovery/risk"
	"github.com/evdnx/zonerecovery/ticks"
	"github.com/evdnx/zonerecovery/types"
)

var ErrCycleActive = errors.New("zone: cycle already active")

// Broker is the order side of the execution collaborator.
type Broker interface {
	Submit(o types.Order) (types.Fill, error)
	CancelAllResting(symbol string) error
}

// Account reports balance and equity; zero means "no reading".
type Account interface {
	Balance() decimal.Decimal
	Equity() decimal.Decimal
}

type noAccount struct{}

func (noAccount) Balance() decimal.Decimal { return decimal.Zero }
func (noAccount) Equity() decimal.Decimal  { return decimal.Zero }

// Instrument carries the tick metadata of the traded symbol. Missing tick
// size or value turns every money-based criterion off.
type Instrument struct {
	Symbol    string
	TickSize  decimal.Decimal
	TickValue decimal.Decimal
}

// Policy configures one controller. Distances are in ticks.
type Policy struct {
	InitialVolume       decimal.Decimal
	Volume              risk.Policy
	ZoneWidthTicks      decimal.Decimal
	ZoneTakeProfitTicks decimal.Decimal
	MaxTrades           int
	Exit                ExitPolicy
}

// State is a read-only copy of the cycle state.
type State struct {
	CycleID       string          `json:"cycle_id"`
	Long          bool            `json:"long"`
	BasePrice     decimal.Decimal `json:"base_price"`
	NextStepIndex int             `json:"next_step"`
	PeakProfit    decimal.Decimal `json:"peak_profit"`
	EquityHigh    decimal.Decimal `json:"equity_high"`
	Steps         []Step          `json:"steps"`
}

type cycleState struct {
	cycleID    string
	long       bool
	basePrice  decimal.Decimal
	nextStep   int
	peakProfit decimal.Decimal
	equityHigh decimal.Decimal
	ledger     Ledger
}

type Action int

const (
	ActionNone Action = iota
	ActionStep
	ActionClosed
)

// Result reports what a price update did.
type Result struct {
	Action Action
	Reason Reason
	Profit decimal.Decimal
	Step   Step
}

// Controller runs the zone recovery state machine for one instrument.
// It is not safe for concurrent use: price updates for an instrument must be
// delivered one at a time.
type Controller struct {
	name     string
	inst     Instrument
	policy   Policy
	exits    ExitEvaluator
	broker   Broker
	account  Account
	log      logger.Logger
	listener Listener
	now      func() time.Time

	state     cycleState
	lastPrice decimal.Decimal
}

// NewController wires a controller. name labels logs and metrics. broker is
// required. A nil account reports no balance or equity, which turns the
// percent take-profit and the equity stop off; a nil log discards output.
func NewController(name string, inst Instrument, p Policy,
	broker Broker, account Account, log logger.Logger) *Controller {

	if log == nil {
		log = logger.NewNop()
	}
	if account == nil {
		account = noAccount{}
	}
	return &Controller{
		name:    name,
		inst:    inst,
		policy:  p,
		broker:  broker,
		account: account,
		log:     log,
		now:     time.Now,
		exits: ExitEvaluator{
			TakeProfitOffset: ticks.ToPriceOffset(p.ZoneTakeProfitTicks, inst.TickSize),
			Policy:           p.Exit,
		},
	}
}

// SetListener registers the receiver of cycle events (nil clears it).
func (c *Controller) SetListener(l Listener) { c.listener = l }

// Active reports whether a cycle is open.
func (c *Controller) Active() bool { return c.state.ledger.Len() > 0 }

func (c *Controller) Snapshot() State {
	return State{
		CycleID:       c.state.cycleID,
		Long:          c.state.long,
		BasePrice:     c.state.basePrice,
		NextStepIndex: c.state.nextStep,
		PeakProfit:    c.state.peakProfit,
		EquityHigh:    c.state.equityHigh,
		Steps:         c.state.ledger.Steps(),
	}
}

// Profit is the floating cycle profit at the last seen price.
func (c *Controller) Profit() decimal.Decimal {
	return c.state.ledger.CycleProfit(c.lastPrice, c.inst.TickSize, c.inst.TickValue)
}

// StartCycle opens a cycle with a market order in the given direction.
// With a non-positive initial volume it does nothing.
func (c *Controller) StartCycle(long bool, price decimal.Decimal) error {
	if c.Active() {
		return ErrCycleActive
	}
	c.lastPrice = price
	if !c.policy.InitialVolume.IsPositive() {
		c.log.Warn("cycle_start_skipped",
			logger.String("strategy", c.name),
			logger.Stringer("initial_volume", c.policy.InitialVolume),
		)
		return nil
	}
	c.state.ledger.Clear()

	step, err := c.execute(long, c.policy.InitialVolume, price, "zr_open")
	if err != nil {
		return err
	}
	c.state.cycleID = uuid.New().String()
	c.state.long = long
	c.state.basePrice = price
	c.state.nextStep = 1
	c.state.peakProfit = decimal.Zero
	c.append(step)

	metrics.CyclesStarted.WithLabelValues(c.name).Inc()
	c.log.Info("cycle_started",
		logger.String("strategy", c.name),
		logger.String("cycle_id", c.state.cycleID),
		logger.Bool("long", long),
		logger.Stringer("base_price", price),
		logger.Stringer("volume", step.Volume),
	)
	c.emit(Event{Kind: EventCycleStarted, StepIndex: 1, Side: types.SideOf(long),
		Price: step.Price, Volume: step.Volume})
	return nil
}

// OnPriceUpdate drives the state machine with a new price. Equity is
// sampled on every call, idle or not.
func (c *Controller) OnPriceUpdate(price decimal.Decimal) (Result, error) {
	c.lastPrice = price
	c.observeEquity()
	if !c.Active() {
		return Result{}, nil
	}

	profit := c.state.ledger.CycleProfit(price, c.inst.TickSize, c.inst.TickValue)
	pf, _ := profit.Float64()
	metrics.CycleProfit.WithLabelValues(c.name).Set(pf)

	decision := c.exits.Evaluate(ExitInput{
		Long:       c.state.long,
		BasePrice:  c.state.basePrice,
		Price:      price,
		Profit:     profit,
		Balance:    c.account.Balance(),
		PeakProfit: c.state.peakProfit,
		EquityHigh: c.state.equityHigh,
	})
	if decision.Close() {
		if err := c.CloseCycle(decision.Reason); err != nil {
			return Result{}, err
		}
		return Result{Action: ActionClosed, Reason: decision.Reason, Profit: profit}, nil
	}
	c.state.peakProfit = decision.PeakProfit

	if c.state.ledger.Len() >= c.policy.MaxTrades {
		return Result{Profit: profit}, nil
	}
	buy, due := c.nextStepDue(price)
	if !due {
		return Result{Profit: profit}, nil
	}

	last, _ := c.state.ledger.Last()
	volume := risk.NextVolume(last.Volume, c.policy.Volume, c.policy.InitialVolume)
	step, err := c.execute(buy, volume, price, "zr_step")
	if err != nil {
		return Result{}, err
	}
	c.append(step)

	c.log.Info("cycle_step_added",
		logger.String("strategy", c.name),
		logger.String("cycle_id", c.state.cycleID),
		logger.Int("step", c.state.ledger.Len()),
		logger.String("side", string(types.SideOf(buy))),
		logger.Stringer("price", step.Price),
		logger.Stringer("volume", step.Volume),
	)
	c.emit(Event{Kind: EventStepAdded, StepIndex: c.state.ledger.Len(), Side: types.SideOf(buy),
		Price: step.Price, Volume: step.Volume, Profit: profit})
	return Result{Action: ActionStep, Profit: profit, Step: step}, nil
}

// CloseCycle flattens the net position with one market order, cancels any
// resting orders and resets the state to idle. Closing an idle controller is
// a no-op. If the flattening order fails the cycle stays active.
func (c *Controller) CloseCycle(reason Reason) error {
	if !c.Active() {
		return nil
	}
	if reason == ReasonNone {
		reason = ReasonManual
	}
	profit := c.Profit()
	net := c.state.ledger.Sum()
	if !net.IsZero() {
		if _, err := c.execute(net.IsNegative(), net.Abs(), c.lastPrice, "zr_close_"+string(reason)); err != nil {
			return err
		}
	}
	cancelErr := c.broker.CancelAllResting(c.inst.Symbol)
	if cancelErr != nil {
		c.log.Warn("cancel_resting_failed",
			logger.String("strategy", c.name),
			logger.String("symbol", c.inst.Symbol),
			logger.Err(cancelErr),
		)
	}

	metrics.CyclesClosed.WithLabelValues(c.name, string(reason)).Inc()
	c.log.Info("cycle_closed",
		logger.String("strategy", c.name),
		logger.String("cycle_id", c.state.cycleID),
		logger.String("reason", string(reason)),
		logger.Int("steps", c.state.ledger.Len()),
		logger.Stringer("profit", profit),
	)
	c.emit(Event{Kind: EventCycleClosed, Price: c.lastPrice, Volume: net.Abs(), Profit: profit, Reason: reason})

	c.state = cycleState{}
	metrics.CycleSteps.WithLabelValues(c.name).Set(0)
	metrics.CycleProfit.WithLabelValues(c.name).Set(0)

	if cancelErr != nil {
		return fmt.Errorf("zone: cancel resting orders: %w", cancelErr)
	}
	return nil
}

// StepIsBuy reports the side of the 1-based step index of a cycle: odd
// steps follow the initiating direction, even steps hedge against it.
func StepIsBuy(index int, long bool) bool {
	return (index%2 == 1) == long
}

// nextStepDue applies the zone-crossing rule to the step about to be placed.
func (c *Controller) nextStepDue(price decimal.Decimal) (buy bool, due bool) {
	width := ticks.ToPriceOffset(c.policy.ZoneWidthTicks, c.inst.TickSize)
	if !width.IsPositive() {
		return false, false
	}
	buy = StepIsBuy(c.state.nextStep, c.state.long)
	base := c.state.basePrice
	if c.state.long {
		if buy {
			return buy, price.GreaterThanOrEqual(base)
		}
		return buy, price.LessThanOrEqual(base.Sub(width))
	}
	if !buy {
		return buy, price.LessThanOrEqual(base)
	}
	return buy, price.GreaterThanOrEqual(base.Add(width))
}

func (c *Controller) append(s Step) {
	c.state.ledger.Append(s)
	c.state.nextStep = c.state.ledger.Len() + 1
	metrics.CycleSteps.WithLabelValues(c.name).Set(float64(c.state.ledger.Len()))
}

func (c *Controller) observeEquity() {
	eq := c.account.Equity()
	if !eq.IsPositive() {
		return
	}
	ef, _ := eq.Float64()
	metrics.EquityGauge.Set(ef)
	if eq.GreaterThan(c.state.equityHigh) {
		c.state.equityHigh = eq
	}
}

// execute submits a market order and turns the fill into a ledger step.
// The step is priced at the fill, or at the reference price when the fill
// carries none.
func (c *Controller) execute(buy bool, volume, price decimal.Decimal, comment string) (Step, error) {
	o := types.Order{
		Symbol:  c.inst.Symbol,
		Side:    types.SideOf(buy),
		Qty:     volume,
		Price:   price,
		Comment: comment,
	}
	fill, err := c.broker.Submit(o)
	if err != nil {
		c.log.Error("order_submit_failed",
			logger.String("symbol", o.Symbol),
			logger.String("side", string(o.Side)),
			logger.Stringer("qty", o.Qty),
			logger.Err(err),
		)
		return Step{}, err
	}
	c.log.Info("order_submitted",
		logger.String("symbol", o.Symbol),
		logger.String("side", string(o.Side)),
		logger.Stringer("qty", o.Qty),
		logger.Stringer("price", o.Price),
		logger.String("comment", comment),
	)
	metrics.OrdersSubmitted.WithLabelValues(c.name).Inc()

	filled := fill.Price
	if !filled.IsPositive() {
		filled = price
	}
	return Step{Buy: buy, Price: filled, Volume: volume}, nil
}

func (c *Controller) emit(ev Event) {
	if c.listener == nil {
		return
	}
	ev.Strategy = c.name
	ev.Symbol = c.inst.Symbol
	if ev.CycleID == "" {
		ev.CycleID = c.state.cycleID
	}
	ev.Time = c.now().UTC()
	c.listener.OnCycleEvent(ev)
}
