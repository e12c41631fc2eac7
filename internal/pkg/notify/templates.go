package notify

import "fmt"

func customerEmail(f Fulfillment) (subject, html string) {
	expires := "see your welcome email"
	if f.ExpiresAt != nil {
		expires = f.ExpiresAt.Format("January 2, 2006")
	}

	portal := ""
	if f.PortalLink != "" {
		portal = fmt.Sprintf(`<p><strong>Portal:</strong> <a href="%s">%s</a></p>`, f.PortalLink, f.PortalLink)
	}

	html = fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #2563eb; text-align: center;">Your IPTV Subscription is Ready!</h1>

  <div style="background: #f8fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h2 style="color: #1f2937; margin-top: 0;">Subscription Details</h2>
    <p><strong>Package:</strong> %s</p>
    <p><strong>Username:</strong> <code>%s</code></p>
    <p><strong>Password:</strong> <code>%s</code></p>
    <p><strong>Expires:</strong> %s</p>
    %s
  </div>

  <div style="background: #ecfdf5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #065f46; margin-top: 0;">Your M3U Playlist Link</h3>
    <p style="word-break: break-all;"><a href="%s">%s</a></p>
  </div>

  <div style="background: #fef3c7; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #92400e; margin-top: 0;">How to Get Started</h3>
    <ol>
      <li>Download your preferred IPTV app (VLC, Perfect Player, TiviMate, etc.)</li>
      <li>Add the M3U playlist URL above to your app</li>
      <li>Use your username and password when prompted</li>
      <li>Enjoy your premium IPTV experience!</li>
    </ol>
  </div>

  <p style="color: #6b7280; font-size: 14px; text-align: center;">
    Thank you for choosing SteadyStream TV!
  </p>
</div>`,
		f.PackageName, f.Username, f.Password, expires, portal, f.M3ULink, f.M3ULink)

	return "Your SteadyStream TV Subscription Credentials", html
}

func businessEmail(f Fulfillment) (subject, html string) {
	html = fmt.Sprintf(`
<div style="font-family: Arial, sans-serif;">
  <h2>New paid order</h2>
  <p><strong>Provider:</strong> %s</p>
  <p><strong>Payment ref:</strong> %s</p>
  <p><strong>Plan:</strong> %s</p>
  <p><strong>Customer:</strong> %s</p>
  <p><strong>Provisioned username:</strong> %s</p>
</div>`,
		f.Provider, f.PaymentRef, f.PlanID, f.Email, f.Username)

	return fmt.Sprintf("SteadyStream order: %s (%s)", f.PlanID, f.Provider), html
}

func businessSMS(f Fulfillment) string {
	return fmt.Sprintf("SteadyStream sale: %s via %s for %s (ref %s)", f.PlanID, f.Provider, f.Email, f.PaymentRef)
}
