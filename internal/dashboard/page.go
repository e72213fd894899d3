package dashboard

import "html/template"

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Volatility Surface Visualization</title>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
aside { width: 260px; padding: 16px; background: #f4f5f7; min-height: 100vh; box-sizing: border-box; }
main { flex: 1; padding: 16px; }
label { display: block; margin-top: 16px; }
input[type=range] { width: 100%; }
table { border-collapse: collapse; font-size: 12px; }
th, td { border: 1px solid #ddd; padding: 2px 6px; text-align: right; }
#error { color: #b00020; }
</style>
</head>
<body>
<aside>
<h3>Parameters</h3>
<label>Number of Strikes: <span id="strikes-value">{{.DefaultStrikes}}</span>
<input id="strikes" type="range" min="{{.MinStrikes}}" max="{{.MaxStrikes}}" value="{{.DefaultStrikes}}">
</label>
<label>Number of Tenors: <span id="tenors-value">{{.DefaultTenors}}</span>
<input id="tenors" type="range" min="{{.MinTenors}}" max="{{.MaxTenors}}" value="{{.DefaultTenors}}">
</label>
<label><input id="table" type="checkbox"{{if .ShowTable}} checked{{end}}> Show Raw Data</label>
<p><a id="smile-link" href="/api/smile.png" target="_blank">Smile chart (PNG)</a></p>
</aside>
<main>
<h1>Volatility Surface Visualization</h1>
<div id="error"></div>
<div id="plot"></div>
<div id="table-wrap"></div>
</main>
<script>
(function () {
  var strikes = document.getElementById("strikes");
  var tenors = document.getElementById("tenors");
  var table = document.getElementById("table");
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");

  function controls() {
    return {
      n_strikes: parseInt(strikes.value, 10),
      n_tenors: parseInt(tenors.value, 10),
      show_table: table.checked
    };
  }

  function send() {
    var c = controls();
    document.getElementById("strikes-value").textContent = c.n_strikes;
    document.getElementById("tenors-value").textContent = c.n_tenors;
    document.getElementById("smile-link").href = "/api/smile.png?strikes=" + c.n_strikes + "&tenors=" + c.n_tenors;
    if (ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify(c));
    }
  }

  function renderTable(t) {
    var wrap = document.getElementById("table-wrap");
    if (!t) { wrap.innerHTML = ""; return; }
    var html = "<h3>Volatility Matrix:</h3><table><tr><th></th>";
    t.columns.forEach(function (c) { html += "<th>" + c + "</th>"; });
    html += "</tr>";
    t.data.forEach(function (row, i) {
      html += "<tr><th>" + t.index[i] + "</th>";
      row.forEach(function (v) { html += "<td>" + v.toFixed(6) + "</td>"; });
      html += "</tr>";
    });
    wrap.innerHTML = html + "</table>";
  }

  ws.onopen = send;
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    var err = document.getElementById("error");
    if (msg.type === "error") { err.textContent = msg.error; return; }
    err.textContent = "";
    Plotly.react("plot", msg.view.plot.data, msg.view.plot.layout);
    renderTable(msg.view.table);
  };

  strikes.addEventListener("input", send);
  tenors.addEventListener("input", send);
  table.addEventListener("change", send);
})();
</script>
</body>
</html>
`))
