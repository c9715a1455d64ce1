package backend

import (
	"context"
	"net/http"

	"spendpal/internal/domain/request"
)

const (
	requestsPath          = "/requests"
	myRequestsPath        = "/requests/mine"
	requestsToApprovePath = "/requests/to-approve"
)

func (c *Client) CreateRequest(ctx context.Context, p request.SubmitParams) (*request.Request, error) {
	var r request.Request
	if err := c.do(ctx, http.MethodPost, requestsPath, NewCreateRequestBody(p), &r, true); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListMyRequests returns the requests the current user submitted.
func (c *Client) ListMyRequests(ctx context.Context) ([]request.Request, error) {
	return c.listRequests(ctx, myRequestsPath)
}

// ListRequestsToApprove returns requests where the current user is an approver.
func (c *Client) ListRequestsToApprove(ctx context.Context) ([]request.Request, error) {
	return c.listRequests(ctx, requestsToApprovePath)
}

func (c *Client) listRequests(ctx context.Context, path string) ([]request.Request, error) {
	var resp requestsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	if resp.Requests == nil {
		return []request.Request{}, nil
	}
	return resp.Requests, nil
}

func (c *Client) UpdateRequestStatus(ctx context.Context, id string, status request.Status, notes string) (*request.Request, error) {
	var r request.Request
	path := requestsPath + "/" + escape(id) + "/status"
	if err := c.do(ctx, http.MethodPut, path, statusBody{Status: status, Notes: notes}, &r, true); err != nil {
		return nil, err
	}
	return &r, nil
}
