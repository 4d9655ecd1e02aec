package server

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/golang-jwt/jwt/v5"
	awsAuth "github.com/mural-social/mural/internal/aws/auth"
	"github.com/mural-social/mural/internal/aws/notification"
	"github.com/mural-social/mural/internal/aws/storage"
	"github.com/mural-social/mural/internal/relation"
	"github.com/mural-social/mural/pkg/logging"
	"go.uber.org/zap"
)

// server is the long-lived HTTP deployment of the relationship engine,
// serving the same operations as the lambda handlers.
type server struct {
	address string
	config  Config

	cognitoPublicKeys map[string]*rsa.PublicKey
	storageClient     *storage.Client
	coordinator       *relation.Coordinator
	projector         *relation.Projector
}

func NewServer() *server {
	cfg := NewConfig()
	tokenSigningKeyUrl := fmt.Sprintf(
		"https://cognito-idp.%s.amazonaws.com/%s/.well-known/jwks.json",
		cfg.AwsRegion,
		cfg.CognitoUserPoolId,
	)
	cognitoPublicKeys, err := awsAuth.LoadCognitoPublicKeys(tokenSigningKeyUrl)
	if err != nil {
		panic(err)
	}
	awsCfg, _ := config.LoadDefaultConfig(context.TODO())
	storageClient := storage.NewClient(dynamodb.NewFromConfig(awsCfg))
	notiClient := notification.NewClient(sns.NewFromConfig(awsCfg))
	srv := &server{
		address:           "0.0.0.0:" + cfg.Port,
		config:            cfg,
		cognitoPublicKeys: cognitoPublicKeys,
		storageClient:     storageClient,
		coordinator: relation.NewCoordinator(
			storageClient,
			relation.NewDispatcher(notiClient, storageClient),
		),
		projector: relation.NewProjector(storageClient),
	}
	return srv
}

// Start method    starts the relationship server
func (s *server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /relations/{id}/{action}", s.withAuth(s.handleRelationAction))
	mux.HandleFunc("GET /relations/{id}", s.withAuth(s.handleRelationGet))
	mux.HandleFunc("GET /friends", s.withAuth(s.handleFriendList))
	mux.HandleFunc("GET /friends/requests/sent", s.withAuth(s.handlePendingSentList))
	mux.HandleFunc("GET /friends/requests/received", s.withAuth(s.handlePendingReceivedList))
	mux.HandleFunc("GET /friends/stats", s.withAuth(s.handleFriendStats))
	mux.HandleFunc("GET /blocked", s.withAuth(s.handleBlockedList))

	httpServer := &http.Server{
		Addr:        s.address,
		Handler:     mux,
		IdleTimeout: s.config.IdleTimeout,
	}
	logging.Info("relationship server started", zap.String("port", s.config.Port))
	return httpServer.ListenAndServe()
}

func (s *server) withAuth(
	handler func(w http.ResponseWriter, r *http.Request, userId string),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, err := s.auth(r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(err.Error()))
			return
		}
		handler(w, r, userId)
	}
}

// auth method    authenticates and extracts userId
func (s *server) auth(r *http.Request) (string, error) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		return "", fmt.Errorf("no authorization")
	}
	issuer := fmt.Sprintf(
		"https://cognito-idp.%s.amazonaws.com/%s",
		s.config.AwsRegion,
		s.config.CognitoUserPoolId,
	)
	validToken, err := awsAuth.ValidateJwt(token, s.cognitoPublicKeys, issuer)
	if err != nil || !validToken.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := validToken.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid claims")
	}
	userId, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("invalid sub")
	}
	return userId, nil
}
