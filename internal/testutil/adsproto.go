// Package testutil builds dynamic record fixtures that mirror the
// reporting API's object model, so tests can exercise classification and
// resolution without generated client code.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Enum numbers used by the fixtures.
const (
	StatusEnabled    = 2
	StatusPaused     = 3
	AdTypeResponsive = 1
	StatusUndeclared = 99 // no declared name, exercises open-enum handling
)

func scalarField(name string, num int32, kind descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(num),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   kind.Enum(),
	}
}

func typedField(name string, num int32, kind descriptorpb.FieldDescriptorProto_Type, typeName string) *descriptorpb.FieldDescriptorProto {
	f := scalarField(name, num, kind)
	f.TypeName = proto.String(typeName)
	return f
}

func repeated(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

// adsFile assembles a small reporting schema: a row message holding
// campaign, ad_group_ad and metrics substructures, status/type enums, the
// ad-copy shorthand wrapper, a repeated field, and a string map. The ad
// "type" field carries the reserved-name marker in its declared name.
func adsFile(t *testing.T) protoreflect.FileDescriptor {
	t.Helper()

	fdp := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("testads/testads.proto"),
		Package: proto.String("testads"),
		Syntax:  proto.String("proto3"),
		EnumType: []*descriptorpb.EnumDescriptorProto{
			{
				Name: proto.String("CampaignStatus"),
				Value: []*descriptorpb.EnumValueDescriptorProto{
					{Name: proto.String("CAMPAIGN_STATUS_UNSPECIFIED"), Number: proto.Int32(0)},
					{Name: proto.String("ENABLED"), Number: proto.Int32(StatusEnabled)},
					{Name: proto.String("PAUSED"), Number: proto.Int32(StatusPaused)},
				},
			},
			{
				Name: proto.String("AdType"),
				Value: []*descriptorpb.EnumValueDescriptorProto{
					{Name: proto.String("AD_TYPE_UNSPECIFIED"), Number: proto.Int32(0)},
					{Name: proto.String("RESPONSIVE_SEARCH_AD"), Number: proto.Int32(AdTypeResponsive)},
				},
			},
		},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("AdTextAsset"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("text", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					scalarField("pinned_field", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32),
				},
			},
			{
				Name: proto.String("Ad"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
					scalarField("name", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					typedField("type_", 3, descriptorpb.FieldDescriptorProto_TYPE_ENUM, ".testads.AdType"),
					repeated(typedField("headlines", 4, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".testads.AdTextAsset")),
					repeated(scalarField("label_ids", 5, descriptorpb.FieldDescriptorProto_TYPE_INT64)),
					repeated(typedField("url_custom_parameters", 6, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".testads.Ad.UrlCustomParametersEntry")),
				},
				NestedType: []*descriptorpb.DescriptorProto{
					{
						Name:    proto.String("UrlCustomParametersEntry"),
						Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
						Field: []*descriptorpb.FieldDescriptorProto{
							scalarField("key", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
							scalarField("value", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
						},
					},
				},
			},
			{
				Name: proto.String("AdGroupAd"),
				Field: []*descriptorpb.FieldDescriptorProto{
					typedField("ad", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".testads.Ad"),
					typedField("status", 2, descriptorpb.FieldDescriptorProto_TYPE_ENUM, ".testads.CampaignStatus"),
				},
			},
			{
				Name: proto.String("Campaign"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
					scalarField("name", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					typedField("status", 3, descriptorpb.FieldDescriptorProto_TYPE_ENUM, ".testads.CampaignStatus"),
					scalarField("start_date", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				},
			},
			{
				Name: proto.String("Metrics"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("clicks", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
					scalarField("ctr", 2, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE),
				},
			},
			{
				Name: proto.String("GoogleAdsRow"),
				Field: []*descriptorpb.FieldDescriptorProto{
					typedField("campaign", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".testads.Campaign"),
					typedField("ad_group_ad", 2, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".testads.AdGroupAd"),
					typedField("metrics", 3, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".testads.Metrics"),
				},
			},
		},
	}

	fd, err := protodesc.NewFile(fdp, nil)
	require.NoError(t, err, "test schema must assemble")
	return fd
}

// NewMessage returns an empty dynamic message for the named fixture type.
func NewMessage(t *testing.T, name protoreflect.Name) *dynamicpb.Message {
	t.Helper()
	md := adsFile(t).Messages().ByName(name)
	require.NotNil(t, md, "unknown fixture message %q", name)
	return dynamicpb.NewMessage(md)
}

// NewEnum returns a standalone enum value of the named fixture enum.
func NewEnum(t *testing.T, name protoreflect.Name, num protoreflect.EnumNumber) protoreflect.Enum {
	t.Helper()
	ed := adsFile(t).Enums().ByName(name)
	require.NotNil(t, ed, "unknown fixture enum %q", name)
	return dynamicpb.NewEnumType(ed).New(num)
}

// FD returns the descriptor of the named field, failing the test when
// the field does not exist.
func FD(t *testing.T, m protoreflect.Message, name protoreflect.Name) protoreflect.FieldDescriptor {
	t.Helper()
	fd := m.Descriptor().Fields().ByName(name)
	require.NotNil(t, fd, "unknown field %q on %s", name, m.Descriptor().FullName())
	return fd
}

// SampleRow builds a fully populated result row: campaign id/name/status,
// an ad with a reserved-name type field and text-asset headlines, and a
// couple of metrics.
func SampleRow(t *testing.T) *dynamicpb.Message {
	t.Helper()

	row := NewMessage(t, "GoogleAdsRow")

	campaign := row.Mutable(FD(t, row, "campaign")).Message()
	campaign.Set(FD(t, campaign, "id"), protoreflect.ValueOfInt64(123))
	campaign.Set(FD(t, campaign, "name"), protoreflect.ValueOfString("Spring Sale"))
	campaign.Set(FD(t, campaign, "status"), protoreflect.ValueOfEnum(StatusEnabled))
	campaign.Set(FD(t, campaign, "start_date"), protoreflect.ValueOfString("2026-03-01"))

	adGroupAd := row.Mutable(FD(t, row, "ad_group_ad")).Message()
	adGroupAd.Set(FD(t, adGroupAd, "status"), protoreflect.ValueOfEnum(StatusEnabled))

	ad := adGroupAd.Mutable(FD(t, adGroupAd, "ad")).Message()
	ad.Set(FD(t, ad, "id"), protoreflect.ValueOfInt64(4242))
	ad.Set(FD(t, ad, "type_"), protoreflect.ValueOfEnum(AdTypeResponsive))

	headlines := ad.Mutable(FD(t, ad, "headlines")).List()
	for _, text := range []string{"Buy Now", "Spring Deals"} {
		h := headlines.AppendMutable().Message()
		h.Set(FD(t, h, "text"), protoreflect.ValueOfString(text))
	}

	labels := ad.Mutable(FD(t, ad, "label_ids")).List()
	for _, id := range []int64{1, 2, 3} {
		labels.Append(protoreflect.ValueOfInt64(id))
	}

	params := ad.Mutable(FD(t, ad, "url_custom_parameters")).Map()
	params.Set(protoreflect.ValueOfString("season").MapKey(), protoreflect.ValueOfString("spring"))

	metrics := row.Mutable(FD(t, row, "metrics")).Message()
	metrics.Set(FD(t, metrics, "clicks"), protoreflect.ValueOfInt64(987))
	metrics.Set(FD(t, metrics, "ctr"), protoreflect.ValueOfFloat64(0.042))

	return row
}
