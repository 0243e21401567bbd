package flightapp_service_api

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/Domenick1991/flightapp/internal/api/apierr"
	"github.com/Domenick1991/flightapp/internal/format"
	"github.com/Domenick1991/flightapp/internal/service/account"
	"github.com/Domenick1991/flightapp/internal/service/booking"
	"github.com/Domenick1991/flightapp/internal/service/search"
	"github.com/Domenick1991/flightapp/internal/session"
	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// SessionMetadataKey carries the token returned by OpenSession.
const SessionMetadataKey = "x-session-token"

const textContentType = "text/plain; charset=utf-8"

// Server implements FlightAppServer on top of the engine services.
type Server struct {
	sessions *session.Registry
	accounts account.AccountUseCase
	search   search.SearchUseCase
	bookings booking.BookingUseCase
}

func NewServer(sessions *session.Registry, accounts account.AccountUseCase, search search.SearchUseCase, bookings booking.BookingUseCase) *Server {
	return &Server{sessions: sessions, accounts: accounts, search: search, bookings: bookings}
}

func (s *Server) OpenSession(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	sess := s.sessions.Open()
	return structpb.NewStruct(map[string]interface{}{"token": sess.Token()})
}

func (s *Server) CloseSession(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	token := tokenFrom(ctx)
	if token == "" || !s.sessions.Close(token) {
		return nil, status.Error(codes.NotFound, "unknown session")
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) CreateAccount(ctx context.Context, req *structpb.Struct) (*httpbody.HttpBody, error) {
	balance, err := intField(req, "balance", false)
	if err != nil {
		return nil, err
	}
	input := account.CreateAccountInput{
		Username:       stringField(req, "username"),
		Password:       stringField(req, "password"),
		InitialBalance: balance,
	}
	name, err := s.accounts.CreateAccount(ctx, input)
	return reply(format.CreateAccount(name, err), err)
}

func (s *Server) Login(ctx context.Context, req *structpb.Struct) (*httpbody.HttpBody, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	name, err := s.accounts.Login(ctx, sess, stringField(req, "username"), stringField(req, "password"))
	return reply(format.Login(name, err), err)
}

func (s *Server) Logout(ctx context.Context, _ *emptypb.Empty) (*httpbody.HttpBody, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	err = s.accounts.Logout(sess)
	return reply(format.Logout(err), err)
}

func (s *Server) Search(ctx context.Context, req *structpb.Struct) (*httpbody.HttpBody, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	day, err := smallIntField(req, "day", true)
	if err != nil {
		return nil, err
	}
	limit, err := smallIntField(req, "limit", false)
	if err != nil {
		return nil, err
	}
	q := search.Query{
		Origin:      stringField(req, "origin"),
		Destination: stringField(req, "destination"),
		DirectOnly:  req.GetFields()["direct"].GetBoolValue(),
		Day:         day,
		MaxResults:  limit,
	}
	result, err := s.search.Search(ctx, sess, q)
	return reply(format.Search(result, err), err)
}

func (s *Server) Book(ctx context.Context, req *structpb.Struct) (*httpbody.HttpBody, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	rank, err := smallIntField(req, "itinerary", true)
	if err != nil {
		return nil, err
	}
	id, err := s.bookings.Book(ctx, sess, rank)
	return reply(format.Book(rank, id, err), err)
}

func (s *Server) Pay(ctx context.Context, req *structpb.Struct) (*httpbody.HttpBody, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	id, err := intField(req, "reservation_id", true)
	if err != nil {
		return nil, err
	}
	payment, err := s.bookings.Pay(ctx, sess, id)
	username, _ := sess.Username()
	return reply(format.Pay(username, id, payment, err), err)
}

func (s *Server) Reservations(ctx context.Context, _ *emptypb.Empty) (*httpbody.HttpBody, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.bookings.Reservations(ctx, sess)
	return reply(format.Reservations(list, err), err)
}

func (s *Server) session(ctx context.Context) (*session.Session, error) {
	token := tokenFrom(ctx)
	if token == "" {
		return nil, status.Error(codes.FailedPrecondition, "missing "+SessionMetadataKey+" metadata, call OpenSession first")
	}
	sess, ok := s.sessions.Get(token)
	if !ok {
		return nil, status.Error(codes.NotFound, "unknown session")
	}
	return sess, nil
}

func tokenFrom(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get(SessionMetadataKey); len(v) > 0 {
		return v[0]
	}
	return ""
}

// reply turns an operation outcome into either a text body or a status
// error whose message is the same text.
func reply(text string, err error) (*httpbody.HttpBody, error) {
	if err != nil {
		return nil, status.Error(apierr.Code(err), strings.TrimSuffix(text, "\n"))
	}
	return &httpbody.HttpBody{ContentType: textContentType, Data: []byte(text)}, nil
}

func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

var errNotInteger = errors.New("must be an integer")

// maxExactInteger is the largest magnitude a JSON number carries without
// losing integer precision.
const maxExactInteger = 1 << 53

// intField reads key as an integer. Missing optional fields read as zero.
func intField(req *structpb.Struct, key string, required bool) (int64, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		if required {
			return 0, status.Errorf(codes.InvalidArgument, "%s is required", key)
		}
		return 0, nil
	}
	n, isNum := v.GetKind().(*structpb.Value_NumberValue)
	if !isNum || n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > maxExactInteger {
		return 0, status.Errorf(codes.InvalidArgument, "%s %v", key, errNotInteger)
	}
	return int64(n.NumberValue), nil
}

func smallIntField(req *structpb.Struct, key string, required bool) (int, error) {
	n, err := intField(req, key, required)
	if err != nil {
		return 0, err
	}
	if int64(int(n)) != n {
		return 0, status.Errorf(codes.InvalidArgument, "%s out of range", key)
	}
	return int(n), nil
}

var _ FlightAppServer = (*Server)(nil)
