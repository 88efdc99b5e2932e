package services

const inquiryEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            margin: 0;
            padding: 0;
            background-color: #f5f5f5;
        }
        .container {
            max-width: 600px;
            margin: 40px auto;
            background: white;
            border-radius: 8px;
            overflow: hidden;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
        }
        .header {
            background: #1a202c;
            color: white;
            padding: 32px 30px;
            text-align: center;
        }
        .header h1 {
            margin: 0;
            font-size: 24px;
            font-weight: 600;
            letter-spacing: 1px;
        }
        .content {
            padding: 32px 30px;
        }
        .field {
            margin-bottom: 20px;
        }
        .field-label {
            font-size: 12px;
            text-transform: uppercase;
            letter-spacing: 1px;
            color: #718096;
            margin-bottom: 4px;
        }
        .field-value {
            font-size: 16px;
            color: #2d3748;
        }
        .message-box {
            background: #f8fafc;
            border-left: 4px solid #1a202c;
            padding: 16px;
            border-radius: 4px;
            white-space: pre-wrap;
        }
        .badge {
            display: inline-block;
            background: #edf2f7;
            color: #4a5568;
            padding: 4px 12px;
            border-radius: 12px;
            font-size: 12px;
            text-transform: uppercase;
            letter-spacing: 1px;
        }
        .footer {
            padding: 20px 30px;
            background: #f8fafc;
            text-align: center;
            font-size: 13px;
            color: #a0aec0;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>BARELANDS</h1>
        </div>
        <div class="content">
            <div class="field">
                <span class="badge">{{.Kind}}</span>
            </div>
            <div class="field">
                <div class="field-label">From</div>
                <div class="field-value">{{.Name}} &lt;{{.Email}}&gt;</div>
            </div>
            <div class="field">
                <div class="field-label">Subject</div>
                <div class="field-value">{{.Subject}}</div>
            </div>
            <div class="field">
                <div class="field-label">Message</div>
                <div class="field-value message-box">{{.Message}}</div>
            </div>
        </div>
        <div class="footer">
            Received {{.ReceivedAt}} &middot; reply to this email to respond directly
        </div>
    </div>
</body>
</html>`

// inquiryEmailData is the template payload for inquiry notifications
type inquiryEmailData struct {
	Kind       string
	Name       string
	Email      string
	Subject    string
	Message    string
	ReceivedAt string
}
