package format

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/vk/adsgateway/internal/testutil"
)

func TestNormalize_NilAndScalars(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	require.Nil(t, Normalize(ctx, nil))

	// Primitive scalars pass through unchanged.
	for _, v := range []any{true, int64(42), 3.14, "hello", int32(-7)} {
		require.Equal(t, v, Normalize(ctx, v))
	}

	// Byte strings become base64 so the output stays JSON-safe.
	require.Equal(t, "aGk=", Normalize(ctx, []byte("hi")))
}

func TestNormalize_EnumReturnsSymbolicName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	enabled := testutil.NewEnum(t, "CampaignStatus", testutil.StatusEnabled)
	require.Equal(t, "ENABLED", Normalize(ctx, enabled))

	// A number with no declared name comes back as the bare number.
	unnamed := testutil.NewEnum(t, "CampaignStatus", testutil.StatusUndeclared)
	require.Equal(t, int32(testutil.StatusUndeclared), Normalize(ctx, unnamed))
}

func TestNormalize_TextAssetShorthand(t *testing.T) {
	t.Parallel()

	asset := testutil.NewMessage(t, "AdTextAsset")
	asset.Set(testutil.FD(t, asset, "text"), protoreflect.ValueOfString("Buy Now"))
	asset.Set(testutil.FD(t, asset, "pinned_field"), protoreflect.ValueOfInt32(1))

	// The wrapper collapses to its bare text, not a nested mapping.
	require.Equal(t, "Buy Now", Normalize(context.Background(), asset))
}

func TestNormalize_RepeatedContainers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// A native repeated field keeps element order.
	ad := testutil.NewMessage(t, "Ad")
	labels := ad.Mutable(testutil.FD(t, ad, "label_ids")).List()
	for _, id := range []int64{1, 2, 3} {
		labels.Append(protoreflect.ValueOfInt64(id))
	}
	got := Normalize(ctx, ad)
	require.Equal(t, map[string]any{"label_ids": []any{int64(1), int64(2), int64(3)}}, got)

	// Plain Go slices normalize element-wise too.
	require.Equal(t, []any{int64(1), "x", nil}, Normalize(ctx, []any{int64(1), "x", nil}))
}

func TestNormalize_Mappings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ad := testutil.NewMessage(t, "Ad")
	params := ad.Mutable(testutil.FD(t, ad, "url_custom_parameters")).Map()
	params.Set(protoreflect.ValueOfString("season").MapKey(), protoreflect.ValueOfString("spring"))

	require.Equal(t,
		map[string]any{"url_custom_parameters": map[string]any{"season": "spring"}},
		Normalize(ctx, ad))

	// Non-string keys are converted to text.
	require.Equal(t,
		map[string]any{"7": "seven"},
		Normalize(ctx, map[int]string{7: "seven"}))
}

func TestNormalize_RecordIsSparse(t *testing.T) {
	t.Parallel()

	campaign := testutil.NewMessage(t, "Campaign")
	campaign.Set(testutil.FD(t, campaign, "id"), protoreflect.ValueOfInt64(123))
	campaign.Set(testutil.FD(t, campaign, "status"), protoreflect.ValueOfEnum(testutil.StatusPaused))

	got := Normalize(context.Background(), campaign)

	// Only populated fields appear; name and start_date were never set.
	require.Equal(t, map[string]any{
		"id":     int64(123),
		"status": "PAUSED",
	}, got)
}

func TestNormalize_RecordNestedConversion(t *testing.T) {
	t.Parallel()

	row := testutil.SampleRow(t)
	got, ok := Normalize(context.Background(), row).(map[string]any)
	require.True(t, ok, "a record must normalize to a mapping")

	campaign, ok := got["campaign"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "ENABLED", campaign["status"])

	adGroupAd, ok := got["ad_group_ad"].(map[string]any)
	require.True(t, ok)
	ad, ok := adGroupAd["ad"].(map[string]any)
	require.True(t, ok)
	// Headlines are text-asset wrappers and collapse to bare strings.
	require.Equal(t, []any{"Buy Now", "Spring Deals"}, ad["headlines"])
}

type plainRecord struct {
	ID     int64
	Name   string
	hidden string
}

func TestNormalize_BestEffortScanFallback(t *testing.T) {
	t.Parallel()

	got := Normalize(context.Background(), plainRecord{ID: 9, Name: "n", hidden: "x"})
	require.Equal(t, map[string]any{"ID": int64(9), "Name": "n"}, got)
}

func TestNormalize_ForeignMessageCanonicalForm(t *testing.T) {
	t.Parallel()

	ts := timestamppb.New(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.Equal(t, "2026-03-01T12:00:00Z", Normalize(context.Background(), ts))
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	inputs := []any{
		nil,
		int64(5),
		"text",
		[]byte{0x01},
		[]any{int64(1), int64(2)},
		map[int]string{1: "one"},
		testutil.SampleRow(t),
		testutil.NewEnum(t, "CampaignStatus", testutil.StatusEnabled),
	}
	for _, v := range inputs {
		once := Normalize(ctx, v)
		require.Equal(t, once, Normalize(ctx, once))
	}
}

// panickyEnum triggers the normalizer's last-resort path.
type panickyEnum struct{ protoreflect.Enum }

func (panickyEnum) Number() protoreflect.EnumNumber         { return 1 }
func (panickyEnum) Descriptor() protoreflect.EnumDescriptor { panic("broken descriptor") }
func (panickyEnum) String() string                          { return "panickyEnum" }

func TestNormalize_NeverPanics(t *testing.T) {
	t.Parallel()

	got := Normalize(context.Background(), panickyEnum{})
	require.Equal(t, "panickyEnum", got)
}

func TestNormalize_FailureContainedToLeaf(t *testing.T) {
	t.Parallel()

	// One broken leaf must not take its siblings down with it.
	rec := struct {
		Good string
		Bad  panickyEnum
	}{Good: "keep me", Bad: panickyEnum{}}

	got := Normalize(context.Background(), rec)
	require.Equal(t, map[string]any{"Good": "keep me", "Bad": "panickyEnum"}, got)

	// Same containment one level deeper.
	nested := map[string]any{"ok": int64(1), "inner": rec}
	require.Equal(t,
		map[string]any{
			"ok":    int64(1),
			"inner": map[string]any{"Good": "keep me", "Bad": "panickyEnum"},
		},
		Normalize(context.Background(), nested))
}

func TestNormalize_PointerContainers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := map[string]any{"a": int64(1)}
	require.Equal(t, map[string]any{"a": int64(1)}, Normalize(ctx, &m))

	s := []int64{1, 2}
	require.Equal(t, []any{int64(1), int64(2)}, Normalize(ctx, &s))
}
