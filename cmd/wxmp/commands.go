package main

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-wxmp/credentials"
	"github.com/goliatone/go-wxmp/oauth"
	"github.com/goliatone/go-wxmp/signature"
	"github.com/spf13/cobra"
)

func (c *cli) tokenCommand() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			if refresh {
				result, err := client.RefreshAccessToken(commandContext(cmd))
				if err != nil {
					return err
				}
				return c.println(result.Value)
			}
			token, err := client.AccessToken(commandContext(cmd))
			if err != nil {
				return err
			}
			return c.println(token)
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "always call the platform")
	return cmd
}

func (c *cli) ticketCommand() *cobra.Command {
	var card bool
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Print the jsapi ticket, or the card ticket with --card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			kind := credentials.KindJSAPITicket
			if card {
				kind = credentials.KindCardTicket
			}
			value, err := client.Credential(commandContext(cmd), kind)
			if err != nil {
				return err
			}
			return c.println(value)
		},
	}
	cmd.Flags().BoolVar(&card, "card", false, "fetch the card api ticket")
	return cmd
}

func (c *cli) signCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Compute JS-SDK and card signatures",
	}
	cmd.AddCommand(c.signURLCommand(), c.signCardCommand())
	return cmd
}

func (c *cli) signURLCommand() *cobra.Command {
	var req signature.URLSignatureRequest
	cmd := &cobra.Command{
		Use:   "url <url>",
		Short: "Sign a page URL for wx.config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.URL = args[0]
			client, err := c.client()
			if err != nil {
				return err
			}
			if req.JSAPITicket == "" {
				ticket, err := client.JSAPITicket(commandContext(cmd))
				if err != nil {
					return err
				}
				req.JSAPITicket = ticket
			}
			sig, err := client.URLSignature(req)
			if err != nil {
				return err
			}
			return c.printJSON(sig)
		},
	}
	cmd.Flags().StringVar(&req.NonceStr, "nonce", "", "nonce, generated when empty")
	cmd.Flags().StringVar(&req.Timestamp, "timestamp", "", "unix seconds, now when empty")
	cmd.Flags().StringVar(&req.JSAPITicket, "ticket", "", "jsapi ticket, fetched when empty")
	return cmd
}

func (c *cli) signCardCommand() *cobra.Command {
	var req signature.CardSignatureRequest
	var ext bool
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Sign a card request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			if req.APITicket == "" {
				ticket, err := client.CardTicket(commandContext(cmd))
				if err != nil {
					return err
				}
				req.APITicket = ticket
			}
			sig, err := client.CardSignature(req)
			if err != nil {
				return err
			}
			if !ext {
				return c.printJSON(sig)
			}
			encoded, err := signature.NewCardExt(sig).String()
			if err != nil {
				return err
			}
			return c.println(encoded)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.CardID, "card-id", "", "card id")
	flags.StringVar(&req.Code, "code", "", "card code")
	flags.StringVar(&req.OpenID, "openid", "", "user openid")
	flags.StringVar(&req.NonceStr, "nonce", "", "nonce, generated when empty")
	flags.StringVar(&req.Timestamp, "timestamp", "", "unix seconds, now when empty")
	flags.StringVar(&req.APITicket, "ticket", "", "card api ticket, fetched when empty")
	flags.StringVar(&req.SignType, "sign-type", signature.DefaultCardSignType, "SHA1, SHA256 or MD5")
	flags.BoolVar(&ext, "ext", false, "print the cardExt JSON instead")
	return cmd
}

func (c *cli) verifyCommand() *cobra.Command {
	var sig, timestamp, nonce, echostr string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a webhook signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			if echostr != "" {
				return c.println(client.VerifyToken(sig, echostr, timestamp, nonce))
			}
			ok, err := client.CheckSignature(sig, timestamp, nonce)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("wxmp: signature mismatch")
			}
			return c.println("ok")
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&sig, "signature", "", "signature query parameter")
	flags.StringVar(&timestamp, "timestamp", "", "timestamp query parameter")
	flags.StringVar(&nonce, "nonce", "", "nonce query parameter")
	flags.StringVar(&echostr, "echostr", "", "echo string; printed back when the signature matches")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}

func (c *cli) oauthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oauth",
		Short: "Web authorization helpers",
	}
	cmd.AddCommand(c.oauthURLCommand(), c.oauthExchangeCommand())
	return cmd
}

func (c *cli) oauthURLCommand() *cobra.Command {
	var req oauth.AuthorizationRequest
	var scope string
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the authorization redirect URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := parseScope(scope)
			if err != nil {
				return err
			}
			req.Scope = parsed
			client, err := c.client()
			if err != nil {
				return err
			}
			link, err := client.AuthorizationURL(req)
			if err != nil {
				return err
			}
			return c.println(link)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&scope, "scope", string(oauth.ScopeBase), "snsapi_base or snsapi_userinfo")
	flags.StringVar(&req.RedirectURL, "redirect", "", "redirect URL, the configured one when empty")
	flags.StringVar(&req.State, "state", "", "state parameter")
	flags.BoolVar(&req.ForcePopup, "popup", false, "force the consent popup")
	return cmd
}

func (c *cli) oauthExchangeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exchange <code>",
		Short: "Exchange an authorization code for a user token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			token, err := client.ExchangeCode(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return c.printJSON(token)
		},
	}
	return cmd
}

func parseScope(raw string) (oauth.Scope, error) {
	switch scope := oauth.Scope(strings.TrimSpace(raw)); scope {
	case "", oauth.ScopeBase:
		return oauth.ScopeBase, nil
	case oauth.ScopeUserInfo:
		return scope, nil
	default:
		return "", fmt.Errorf("wxmp: unknown scope %q", raw)
	}
}
