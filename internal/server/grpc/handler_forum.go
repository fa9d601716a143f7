package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophforum/internal/forumpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) ListThreads(ctx context.Context, req *forumpb.ListThreadsRequest) (*forumpb.ListThreadsResponse, error) {
	page, err := s.forum.ThreadsPage(ctx, int(req.Page), int(req.Size))
	if err != nil {
		return nil, s.fail(ctx, "list threads", err)
	}

	return &forumpb.ListThreadsResponse{
		Threads:    toSummaries(page.Threads),
		Page:       int64(page.Page),
		PageSize:   int64(page.PageSize),
		Total:      page.Total,
		TotalPages: int64(page.TotalPages),
	}, nil
}

func (s *GRPCServer) GetThread(ctx context.Context, req *forumpb.IDRequest) (*forumpb.GetThreadResponse, error) {
	thread, err := s.forum.Thread(ctx, req.ID)
	if err != nil {
		return nil, s.fail(ctx, "get thread", err)
	}

	messages, err := s.forum.Messages(ctx, req.ID)
	if err != nil {
		return nil, s.fail(ctx, "get thread", err)
	}

	list, err := toRenderedMessages(messages)
	if err != nil {
		return nil, s.fail(ctx, "render messages", err)
	}

	return &forumpb.GetThreadResponse{Thread: toThread(thread), Messages: list}, nil
}

func (s *GRPCServer) Search(ctx context.Context, req *forumpb.SearchRequest) (*forumpb.SearchResponse, error) {
	results, err := s.forum.Search(ctx, req.Query)
	if err != nil {
		return nil, s.fail(ctx, "search", err)
	}
	return &forumpb.SearchResponse{Results: toSearchResults(results)}, nil
}

func (s *GRPCServer) CreateThread(ctx context.Context, req *forumpb.CreateThreadRequest) (*forumpb.IDResponse, error) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing identity")
	}

	title := strings.TrimSpace(req.Title)
	if err := validateThread(title, req.Content, req.Tag); err != nil {
		return nil, toStatus(err)
	}

	id, err := s.forum.CreateThread(ctx, title, req.Content, identity.UserID, req.Tag)
	if err != nil {
		return nil, s.fail(ctx, "create thread", err)
	}

	return &forumpb.IDResponse{ID: id}, nil
}

func (s *GRPCServer) PostMessage(ctx context.Context, req *forumpb.PostMessageRequest) (*forumpb.IDResponse, error) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing identity")
	}

	if err := validateContent(req.Content); err != nil {
		return nil, toStatus(err)
	}

	id, err := s.forum.AddMessage(ctx, req.Content, identity.UserID, req.ThreadID)
	if err != nil {
		return nil, s.fail(ctx, "post message", err)
	}

	return &forumpb.IDResponse{ID: id}, nil
}

func (s *GRPCServer) EditMessage(ctx context.Context, req *forumpb.EditMessageRequest) (*forumpb.EditMessageResponse, error) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing identity")
	}

	if err := validateContent(req.Content); err != nil {
		return nil, toStatus(err)
	}

	msg, err := s.forum.EditMessageAs(ctx, identity.UserID, req.ID, req.Content)
	if err != nil {
		return nil, s.fail(ctx, "edit message", err)
	}

	return &forumpb.EditMessageResponse{Message: toMessage(msg)}, nil
}

func (s *GRPCServer) RemoveMessage(ctx context.Context, req *forumpb.IDRequest) (*forumpb.RemoveMessageResponse, error) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing identity")
	}

	msg, err := s.forum.RemoveMessageAs(ctx, identity.UserID, req.ID)
	if err != nil {
		return nil, s.fail(ctx, "remove message", err)
	}

	return &forumpb.RemoveMessageResponse{ID: msg.ID, ThreadID: msg.ThreadID}, nil
}
