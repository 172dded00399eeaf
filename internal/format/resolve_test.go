package format

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/vk/adsgateway/internal/testutil"
)

func TestResolve_DirectAndNested(t *testing.T) {
	t.Parallel()

	row := testutil.SampleRow(t)

	id, err := Resolve(row, "campaign.id")
	require.NoError(t, err)
	require.Equal(t, int64(123), id)

	name, err := Resolve(row, "campaign.name")
	require.NoError(t, err)
	require.Equal(t, "Spring Sale", name)

	clicks, err := Resolve(row, "metrics.clicks")
	require.NoError(t, err)
	require.Equal(t, int64(987), clicks)
}

func TestResolve_ReservedNameFallback(t *testing.T) {
	t.Parallel()

	row := testutil.SampleRow(t)

	// The declared field name carries the reserved marker ("type_");
	// callers write the natural name from the query language.
	viaNatural, err := Resolve(row, "ad_group_ad.ad.type")
	require.NoError(t, err)

	viaDeclared, err := Resolve(row, "ad_group_ad.ad.type_")
	require.NoError(t, err)

	require.Equal(t, viaDeclared, viaNatural)
	require.Equal(t, "RESPONSIVE_SEARCH_AD", Normalize(context.Background(), viaNatural))
}

func TestResolve_MissingSegmentFails(t *testing.T) {
	t.Parallel()

	row := testutil.SampleRow(t)

	_, err := Resolve(row, "campaign.missing")
	require.Error(t, err)

	var resErr *FieldResolutionError
	require.True(t, errors.As(err, &resErr))
	require.Equal(t, "missing", resErr.Segment)
	require.Equal(t, "campaign.missing", resErr.Path)

	_, err = Resolve(row, "nope.field")
	require.True(t, errors.As(err, &resErr))
	require.Equal(t, "nope", resErr.Segment)
}

func TestResolve_UnpopulatedFieldYieldsDefault(t *testing.T) {
	t.Parallel()

	row := testutil.NewMessage(t, "GoogleAdsRow")

	// Walking through never-set substructures mirrors plain attribute
	// access on the object model: defaults, not errors.
	name, err := Resolve(row, "campaign.name")
	require.NoError(t, err)
	require.Equal(t, "", name)
}

func TestResolve_JSONShapedRows(t *testing.T) {
	t.Parallel()

	// Rows from the REST surface are plain maps with lowerCamel keys.
	row := map[string]any{
		"adGroupAd": map[string]any{
			"ad": map[string]any{"id": float64(4242), "type": "RESPONSIVE_SEARCH_AD"},
		},
		"campaign": map[string]any{"id": float64(123)},
	}

	id, err := Resolve(row, "campaign.id")
	require.NoError(t, err)
	require.Equal(t, float64(123), id)

	adType, err := Resolve(row, "ad_group_ad.ad.type")
	require.NoError(t, err)
	require.Equal(t, "RESPONSIVE_SEARCH_AD", adType)
}

func TestResolve_ProtoMapValues(t *testing.T) {
	t.Parallel()

	row := testutil.SampleRow(t)

	season, err := Resolve(row, "ad_group_ad.ad.url_custom_parameters.season")
	require.NoError(t, err)
	require.Equal(t, "spring", season)

	_, err = Resolve(row, "ad_group_ad.ad.url_custom_parameters.winter")
	var resErr *FieldResolutionError
	require.True(t, errors.As(err, &resErr))
	require.Equal(t, "winter", resErr.Segment)
}

type fakeAd struct {
	Id    int64
	Type_ string
}

type fakeRow struct {
	Ad *fakeAd
}

func (r *fakeRow) GetAd() *fakeAd { return r.Ad }

func TestResolve_StructFieldsAndGetters(t *testing.T) {
	t.Parallel()

	row := &fakeRow{Ad: &fakeAd{Id: 7, Type_: "TEXT_AD"}}

	id, err := Resolve(row, "ad.id")
	require.NoError(t, err)
	require.Equal(t, int64(7), id)

	adType, err := Resolve(row, "ad.type")
	require.NoError(t, err)
	require.Equal(t, "TEXT_AD", adType)
}

func TestResolve_EnumFieldKeepsSymbolContext(t *testing.T) {
	t.Parallel()

	row := testutil.SampleRow(t)

	status, err := Resolve(row, "campaign.status")
	require.NoError(t, err)
	// The resolved value still knows its descriptor, so normalization
	// can emit the symbolic name instead of the wire number.
	require.Equal(t, "ENABLED", Normalize(context.Background(), status))

	// Sanity: it is not just a bare number.
	_, bare := status.(protoreflect.EnumNumber)
	require.False(t, bare)
}

func TestSegmentCandidates(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"type", "type_"}, segmentCandidates("type"))
	require.Equal(t, []string{"type_", "type__", "type"}, segmentCandidates("type_"))
	require.Equal(t, []string{"ad_group_ad", "ad_group_ad_", "adGroupAd"}, segmentCandidates("ad_group_ad"))
}
