package grpc

// proto.go defines the gRPC server and client API for seqscore.v1.ScoringService.
// It stands in for protoc-generated code; messages travel with the JSON codec
// registered in codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ScoringServiceName = "seqscore.v1.ScoringService"

	ScoringService_ScoreSequence_FullMethodName   = "/seqscore.v1.ScoringService/ScoreSequence"
	ScoringService_AssessReport_FullMethodName    = "/seqscore.v1.ScoringService/AssessReport"
	ScoringService_GetAssessment_FullMethodName   = "/seqscore.v1.ScoringService/GetAssessment"
	ScoringService_ListAssessments_FullMethodName = "/seqscore.v1.ScoringService/ListAssessments"
)

// ScoringServiceServer is the server API for ScoringService.
type ScoringServiceServer interface {
	ScoreSequence(context.Context, *ScoreSequenceRequest) (*ScoreSequenceResponse, error)
	AssessReport(context.Context, *AssessReportRequest) (*AssessReportResponse, error)
	GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error)
	ListAssessments(context.Context, *ListAssessmentsRequest) (*ListAssessmentsResponse, error)
	mustEmbedUnimplementedScoringServiceServer()
}

// UnimplementedScoringServiceServer provides forward-compatible default implementations.
type UnimplementedScoringServiceServer struct{}

func (UnimplementedScoringServiceServer) ScoreSequence(context.Context, *ScoreSequenceRequest) (*ScoreSequenceResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreSequence not implemented")
}
func (UnimplementedScoringServiceServer) AssessReport(context.Context, *AssessReportRequest) (*AssessReportResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AssessReport not implemented")
}
func (UnimplementedScoringServiceServer) GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAssessment not implemented")
}
func (UnimplementedScoringServiceServer) ListAssessments(context.Context, *ListAssessmentsRequest) (*ListAssessmentsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListAssessments not implemented")
}
func (UnimplementedScoringServiceServer) mustEmbedUnimplementedScoringServiceServer() {}

// RegisterScoringServiceServer registers the ScoringServiceServer with the gRPC server.
func RegisterScoringServiceServer(s grpclib.ServiceRegistrar, srv ScoringServiceServer) {
	s.RegisterService(&_ScoringService_serviceDesc, srv)
}

var _ScoringService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ScoringServiceName,
	HandlerType: (*ScoringServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ScoreSequence", Handler: _ScoringService_ScoreSequence_Handler},
		{MethodName: "AssessReport", Handler: _ScoringService_AssessReport_Handler},
		{MethodName: "GetAssessment", Handler: _ScoringService_GetAssessment_Handler},
		{MethodName: "ListAssessments", Handler: _ScoringService_ListAssessments_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _ScoringService_ScoreSequence_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ScoreSequenceRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).ScoreSequence(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: ScoringService_ScoreSequence_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoringServiceServer).ScoreSequence(ctx, req.(*ScoreSequenceRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _ScoringService_AssessReport_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(AssessReportRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).AssessReport(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: ScoringService_AssessReport_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoringServiceServer).AssessReport(ctx, req.(*AssessReportRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _ScoringService_GetAssessment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetAssessmentRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).GetAssessment(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: ScoringService_GetAssessment_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoringServiceServer).GetAssessment(ctx, req.(*GetAssessmentRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _ScoringService_ListAssessments_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ListAssessmentsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).ListAssessments(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: ScoringService_ListAssessments_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoringServiceServer).ListAssessments(ctx, req.(*ListAssessmentsRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// ScoringServiceClient is the client API for ScoringService.
type ScoringServiceClient interface {
	ScoreSequence(ctx context.Context, in *ScoreSequenceRequest, opts ...grpclib.CallOption) (*ScoreSequenceResponse, error)
	AssessReport(ctx context.Context, in *AssessReportRequest, opts ...grpclib.CallOption) (*AssessReportResponse, error)
	GetAssessment(ctx context.Context, in *GetAssessmentRequest, opts ...grpclib.CallOption) (*GetAssessmentResponse, error)
	ListAssessments(ctx context.Context, in *ListAssessmentsRequest, opts ...grpclib.CallOption) (*ListAssessmentsResponse, error)
}

type scoringServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewScoringServiceClient returns a client that encodes calls with the JSON codec.
func NewScoringServiceClient(cc grpclib.ClientConnInterface) ScoringServiceClient {
	return &scoringServiceClient{cc: cc}
}

func (c *scoringServiceClient) invoke(ctx context.Context, method string, in, out interface{}, opts []grpclib.CallOption) error {
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *scoringServiceClient) ScoreSequence(ctx context.Context, in *ScoreSequenceRequest, opts ...grpclib.CallOption) (*ScoreSequenceResponse, error) {
	out := new(ScoreSequenceResponse)
	if err := c.invoke(ctx, ScoringService_ScoreSequence_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scoringServiceClient) AssessReport(ctx context.Context, in *AssessReportRequest, opts ...grpclib.CallOption) (*AssessReportResponse, error) {
	out := new(AssessReportResponse)
	if err := c.invoke(ctx, ScoringService_AssessReport_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scoringServiceClient) GetAssessment(ctx context.Context, in *GetAssessmentRequest, opts ...grpclib.CallOption) (*GetAssessmentResponse, error) {
	out := new(GetAssessmentResponse)
	if err := c.invoke(ctx, ScoringService_GetAssessment_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scoringServiceClient) ListAssessments(ctx context.Context, in *ListAssessmentsRequest, opts ...grpclib.CallOption) (*ListAssessmentsResponse, error) {
	out := new(ListAssessmentsResponse)
	if err := c.invoke(ctx, ScoringService_ListAssessments_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
