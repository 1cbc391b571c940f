package cognitoclient

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type User struct {
	Email    string
	Password string
}

type UserLogin struct {
	Email    string
	Password string
}

type UserConfirmation struct {
	Email string
	Code  string
}

type AuthCreate struct {
	AccessToken string
	IDToken     string
}

type CognitoInterface interface {
	SignUp(user *User) (string, error)
	SignIn(login *UserLogin) (*AuthCreate, error)
	ConfirmAccount(confirmation *UserConfirmation) error
	AdminDeleteUser(email string) error
}

type CognitoClient struct {
	client       *cognitoidentityprovider.Client
	clientId     string
	clientSecret string
	userPoolId   string
}

func InitCognitoClient() (*CognitoClient, error) {
	clientId := os.Getenv("COGNITO_CLIENT_ID")
	userPoolId := os.Getenv("COGNITO_USER_POOL_ID")
	if clientId == "" || userPoolId == "" {
		return nil, errors.New("COGNITO_CLIENT_ID and COGNITO_USER_POOL_ID must be set")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, err
	}

	return &CognitoClient{
		client:       cognitoidentityprovider.NewFromConfig(cfg),
		clientId:     clientId,
		clientSecret: os.Getenv("COGNITO_CLIENT_SECRET"),
		userPoolId:   userPoolId,
	}, nil
}

// SignUp registers the user on the pool and returns the subject UUID
// Cognito assigned. Cognito mails the confirmation code itself.
func (c *CognitoClient) SignUp(user *User) (string, error) {
	input := &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(c.clientId),
		Username: aws.String(user.Email),
		Password: aws.String(user.Password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(user.Email)},
		},
	}
	if c.clientSecret != "" {
		input.SecretHash = aws.String(c.secretHash(user.Email))
	}

	out, err := c.client.SignUp(context.TODO(), input)
	if err != nil {
		return "", err
	}
	return aws.ToString(out.UserSub), nil
}

func (c *CognitoClient) SignIn(login *UserLogin) (*AuthCreate, error) {
	params := map[string]string{
		"USERNAME": login.Email,
		"PASSWORD": login.Password,
	}
	if c.clientSecret != "" {
		params["SECRET_HASH"] = c.secretHash(login.Email)
	}

	out, err := c.client.InitiateAuth(context.TODO(), &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(c.clientId),
		AuthParameters: params,
	})
	if err != nil {
		return nil, err
	}

	if out.AuthenticationResult == nil {
		return nil, errors.New("cognito did not return tokens")
	}
	return &AuthCreate{
		AccessToken: aws.ToString(out.AuthenticationResult.AccessToken),
		IDToken:     aws.ToString(out.AuthenticationResult.IdToken),
	}, nil
}

func (c *CognitoClient) ConfirmAccount(confirmation *UserConfirmation) error {
	input := &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(c.clientId),
		Username:         aws.String(confirmation.Email),
		ConfirmationCode: aws.String(confirmation.Code),
	}
	if c.clientSecret != "" {
		input.SecretHash = aws.String(c.secretHash(confirmation.Email))
	}

	_, err := c.client.ConfirmSignUp(context.TODO(), input)
	return err
}

func (c *CognitoClient) AdminDeleteUser(email string) error {
	_, err := c.client.AdminDeleteUser(context.TODO(), &cognitoidentityprovider.AdminDeleteUserInput{
		UserPoolId: aws.String(c.userPoolId),
		Username:   aws.String(email),
	})
	return err
}

func (c *CognitoClient) secretHash(username string) string {
	mac := hmac.New(sha256.New, []byte(c.clientSecret))
	mac.Write([]byte(username + c.clientId))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
