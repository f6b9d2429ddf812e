package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"StockCast/internal/domain/models"
)

const (
	defaultSeqLength  = 60
	defaultHidden     = 32
	defaultLayers     = 2
	defaultEpochs     = 60
	defaultLearnRate  = 0.02
	defaultTrainSplit = 0.8

	gradClip = 5.0
)

// SequenceConfig tunes the recurrent sequence strategy. Rand drives weight
// initialization and the per-epoch shuffle of training windows.
type SequenceConfig struct {
	SeqLength  int
	Hidden     int
	Layers     int
	Epochs     int
	LearnRate  float64
	TrainSplit float64
	Rand       *rand.Rand
}

// SequenceStrategy trains a recurrent sequence-to-one regressor on fixed
// windows of min-max normalized closes and forecasts autoregressively: each
// future step feeds the previous prediction back into a constant-length
// sliding window. Operates on raw closes, independent of the feature engine.
type SequenceStrategy struct {
	cfg      SequenceConfig
	scaler   *MinMaxScaler
	norm     []float64
	dates    []time.Time
	closes   []float64
	net      *elmanNet
	split    int
	windows  int
	lastDate time.Time
	fitted   bool
}

// NewSequence creates an unfitted sequence strategy.
func NewSequence(cfg SequenceConfig) *SequenceStrategy {
	if cfg.SeqLength <= 0 {
		cfg.SeqLength = defaultSeqLength
	}
	if cfg.Hidden <= 0 {
		cfg.Hidden = defaultHidden
	}
	if cfg.Layers <= 0 {
		cfg.Layers = defaultLayers
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = defaultEpochs
	}
	if cfg.LearnRate <= 0 {
		cfg.LearnRate = defaultLearnRate
	}
	if cfg.TrainSplit <= 0 || cfg.TrainSplit >= 1 {
		cfg.TrainSplit = defaultTrainSplit
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SequenceStrategy{cfg: cfg}
}

func (s *SequenceStrategy) Name() string { return "sequence" }

// Fit normalizes the close series, builds sliding windows, splits them
// 80/20 chronologically, and trains the network for the full epoch budget
// at a fixed learning rate. No early stopping and no validation-based
// selection; only the order of training windows is shuffled per epoch.
func (s *SequenceStrategy) Fit(series models.PriceSeries) error {
	seq := s.cfg.SeqLength
	if len(series) < seq+1 {
		return &models.InsufficientDataError{Have: len(series), Need: seq + 1}
	}

	closes := series.Closes()
	for _, v := range closes {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &models.FitError{Reason: "non-finite close value"}
		}
	}

	scaler, err := FitScaler(closes)
	if err != nil {
		return err
	}

	s.scaler = scaler
	s.norm = scaler.TransformAll(closes)
	s.closes = closes
	s.dates = make([]time.Time, len(series))
	for i, c := range series {
		s.dates[i] = c.Date
	}
	s.lastDate = series.LastDate()

	s.windows = len(closes) - seq
	s.split = int(s.cfg.TrainSplit * float64(s.windows))
	if s.split < 1 {
		s.split = 1
	}
	if s.split > s.windows {
		s.split = s.windows
	}

	s.net = newElmanNet(s.cfg.Layers, s.cfg.Hidden, s.cfg.Rand)
	for epoch := 0; epoch < s.cfg.Epochs; epoch++ {
		for _, i := range s.cfg.Rand.Perm(s.split) {
			s.net.trainStep(s.norm[i:i+seq], s.norm[i+seq], s.cfg.LearnRate)
		}
	}

	s.fitted = true
	return nil
}

// Evaluate runs a single-shot (non-recursive) prediction over every test
// window and inverse-transforms back to price scale.
func (s *SequenceStrategy) Evaluate() (models.EvalSeries, error) {
	if !s.fitted {
		return models.EvalSeries{}, fmt.Errorf("sequence strategy not fitted")
	}
	seq := s.cfg.SeqLength
	n := s.windows - s.split
	out := models.EvalSeries{
		Dates:     make([]time.Time, 0, n),
		Actual:    make([]float64, 0, n),
		Predicted: make([]float64, 0, n),
	}
	for i := s.split; i < s.windows; i++ {
		pred := s.net.predict(s.norm[i : i+seq])
		out.Dates = append(out.Dates, s.dates[i+seq])
		out.Actual = append(out.Actual, s.closes[i+seq])
		out.Predicted = append(out.Predicted, s.scaler.Inverse(pred))
	}
	return out, nil
}

// Extrapolate seeds a window with the last seq_length normalized closes and
// rolls it forward: each step predicts one value, appends it, and drops the
// oldest. Every step past the first depends on prior predictions, so error
// compounds across the horizon.
func (s *SequenceStrategy) Extrapolate(days int) (models.PredSeries, error) {
	if !s.fitted {
		return models.PredSeries{}, fmt.Errorf("sequence strategy not fitted")
	}
	seq := s.cfg.SeqLength
	window := make([]float64, seq)
	copy(window, s.norm[len(s.norm)-seq:])

	out := models.PredSeries{
		Dates:  make([]time.Time, days),
		Values: make([]float64, days),
	}
	for i := 1; i <= days; i++ {
		pred := s.net.predict(window)
		copy(window, window[1:])
		window[seq-1] = pred

		out.Dates[i-1] = s.lastDate.AddDate(0, 0, i)
		out.Values[i-1] = s.scaler.Inverse(pred)
	}
	return out, nil
}

// elmanNet is a stack of simple recurrent (Elman) layers with a linear
// scalar head. Hidden state starts at zero for every window.
type elmanNet struct {
	layers []elmanLayer
	wo     []float64
	bo     float64
	hidden int
}

type elmanLayer struct {
	wx [][]float64 // hidden x inDim
	wh [][]float64 // hidden x hidden
	b  []float64
}

func newElmanNet(layers, hidden int, rng *rand.Rand) *elmanNet {
	net := &elmanNet{hidden: hidden, layers: make([]elmanLayer, layers)}
	for l := range net.layers {
		inDim := hidden
		if l == 0 {
			inDim = 1
		}
		r := math.Sqrt(1 / float64(inDim+hidden))
		net.layers[l] = elmanLayer{
			wx: randMatrix(hidden, inDim, r, rng),
			wh: randMatrix(hidden, hidden, r, rng),
			b:  make([]float64, hidden),
		}
	}
	ro := math.Sqrt(1 / float64(hidden))
	net.wo = make([]float64, hidden)
	for h := range net.wo {
		net.wo[h] = (rng.Float64()*2 - 1) * ro
	}
	return net
}

func randMatrix(rows, cols int, r float64, rng *rand.Rand) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = (rng.Float64()*2 - 1) * r
		}
	}
	return m
}

// forward runs the stack over the window and returns the scalar output plus
// all hidden states, indexed states[layer][step][unit].
func (n *elmanNet) forward(x []float64) (float64, [][][]float64) {
	T := len(x)
	states := make([][][]float64, len(n.layers))
	for l := range states {
		states[l] = make([][]float64, T)
	}

	for t := 0; t < T; t++ {
		for l, layer := range n.layers {
			in := []float64{x[t]}
			if l > 0 {
				in = states[l-1][t]
			}
			h := make([]float64, n.hidden)
			for u := 0; u < n.hidden; u++ {
				pre := layer.b[u]
				for k, v := range in {
					pre += layer.wx[u][k] * v
				}
				if t > 0 {
					for k, v := range states[l][t-1] {
						pre += layer.wh[u][k] * v
					}
				}
				h[u] = math.Tanh(pre)
			}
			states[l][t] = h
		}
	}

	top := states[len(n.layers)-1][T-1]
	y := n.bo
	for u, v := range top {
		y += n.wo[u] * v
	}
	return y, states
}

func (n *elmanNet) predict(x []float64) float64 {
	y, _ := n.forward(x)
	return y
}

// trainStep performs one SGD update via backpropagation through time for a
// single (window, target) pair under squared error loss.
func (n *elmanNet) trainStep(x []float64, target, lr float64) {
	pred, states := n.forward(x)
	dy := pred - target

	T := len(x)
	L := len(n.layers)

	dwx := make([][][]float64, L)
	dwh := make([][][]float64, L)
	db := make([][]float64, L)
	dh := make([][][]float64, L)
	for l := range n.layers {
		inDim := n.hidden
		if l == 0 {
			inDim = 1
		}
		dwx[l] = zeroMatrix(n.hidden, inDim)
		dwh[l] = zeroMatrix(n.hidden, n.hidden)
		db[l] = make([]float64, n.hidden)
		dh[l] = zeroMatrix(T, n.hidden)
	}

	dwo := make([]float64, n.hidden)
	for u, v := range states[L-1][T-1] {
		dwo[u] = dy * v
		dh[L-1][T-1][u] = dy * n.wo[u]
	}
	dbo := dy

	dpre := make([]float64, n.hidden)
	for t := T - 1; t >= 0; t-- {
		for l := L - 1; l >= 0; l-- {
			layer := &n.layers[l]
			for u := 0; u < n.hidden; u++ {
				s := states[l][t][u]
				dpre[u] = dh[l][t][u] * (1 - s*s)
				db[l][u] += dpre[u]
			}

			if l == 0 {
				for u := 0; u < n.hidden; u++ {
					dwx[l][u][0] += dpre[u] * x[t]
				}
			} else {
				for u := 0; u < n.hidden; u++ {
					for k, v := range states[l-1][t] {
						dwx[l][u][k] += dpre[u] * v
						dh[l-1][t][k] += dpre[u] * layer.wx[u][k]
					}
				}
			}

			if t > 0 {
				for u := 0; u < n.hidden; u++ {
					for k, v := range states[l][t-1] {
						dwh[l][u][k] += dpre[u] * v
						dh[l][t-1][k] += dpre[u] * layer.wh[u][k]
					}
				}
			}
		}
	}

	for l := range n.layers {
		layer := &n.layers[l]
		for u := 0; u < n.hidden; u++ {
			for k := range layer.wx[u] {
				layer.wx[u][k] -= lr * clip(dwx[l][u][k])
			}
			for k := range layer.wh[u] {
				layer.wh[u][k] -= lr * clip(dwh[l][u][k])
			}
			layer.b[u] -= lr * clip(db[l][u])
		}
	}
	for u := range n.wo {
		n.wo[u] -= lr * clip(dwo[u])
	}
	n.bo -= lr * clip(dbo)
}

func zeroMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

func clip(g float64) float64 {
	if g > gradClip {
		return gradClip
	}
	if g < -gradClip {
		return -gradClip
	}
	return g
}
