package subtitle

import (
	"math"
	"testing"
)

func TestSentenceSplitter_SplitAndEstimate(t *testing.T) {
	sp := NewSentenceSplitter()
	got := sp.SplitAndEstimate("这是第一句话测试。短句！")
	if len(got) != 2 {
		t.Fatalf("got %d sentences, want 2", len(got))
	}
	// 8 chars * 0.4 = 3.2s, above the floor
	if got[0].Text != "这是第一句话测试。" {
		t.Errorf("first text = %q", got[0].Text)
	}
	if got[0].Start != 0 || !almost(got[0].End, 3.2) {
		t.Errorf("first timing = [%v, %v], want [0, 3.2]", got[0].Start, got[0].End)
	}
	// 2 chars * 0.4 = 0.8s, floored to 2s
	if !almost(got[1].Start, 3.2) || !almost(got[1].End, 5.2) {
		t.Errorf("second timing = [%v, %v], want [3.2, 5.2]", got[1].Start, got[1].End)
	}
}

func TestSentenceSplitter_DurationFloor(t *testing.T) {
	sp := NewSentenceSplitter()
	got := sp.SplitAndEstimate("嗯。")
	if len(got) != 1 {
		t.Fatalf("got %d sentences, want 1", len(got))
	}
	if d := got[0].End - got[0].Start; d != 2.0 {
		t.Errorf("duration = %v, want exactly 2.0", d)
	}
}

func TestSentenceSplitter_RestoresTerminator(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "terminators discarded and restored", text: "你好。再见！", want: []string{"你好。", "再见。"}},
		{name: "no trailing terminator", text: "未完的话", want: []string{"未完的话。"}},
		{name: "ascii", text: "one. two?", want: []string{"one。", "two。"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := NewSentenceSplitter()
			got := sp.SplitAndEstimate(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d sentences, want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				if got[i].Text != w {
					t.Errorf("sentence %d = %q, want %q", i, got[i].Text, w)
				}
			}
		})
	}
}

func TestSentenceSplitter_Empty(t *testing.T) {
	tests := []string{"", "。。。", "  "}
	sp := NewSentenceSplitter()
	for _, text := range tests {
		if got := sp.SplitAndEstimate(text); len(got) != 0 {
			t.Errorf("SplitAndEstimate(%q) = %v, want empty", text, got)
		}
	}
}

func almost(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}
