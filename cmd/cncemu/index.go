package main

const indexHTML = `
<!DOCTYPE html>
<html>
  <head>
    <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
    <title>cnc-emulator</title>
    <style type="text/css">
      body { font-family: monospace; }
      canvas { border: 1px solid black; }
      #log { white-space: pre; height: 8em; overflow-y: scroll; border: 1px solid #ccc; }
    </style>
  </head>
  <body>
    <h3>cnc-emulator</h3>
    <div>
      <textarea id="program" rows="8" cols="60" placeholder="paste a program"></textarea>
    </div>
    <div>
      <button onclick="create()">load</button>
      <button onclick="post('play')">play</button>
      <button onclick="post('pause')">pause</button>
      <button onclick="post('step')">step</button>
      <button onclick="post('reset')">reset</button>
    </div>
    <canvas id="view" width="600" height="600"></canvas>
    <div id="log"></div>
    <script type="text/javascript">
let jobID = null;
let zoom = 20;

const canvas = document.getElementById("view");
const ctx = canvas.getContext("2d");
const logEl = document.getElementById("log");

function logLine(s) {
  logEl.textContent += s + "\n";
  logEl.scrollTop = logEl.scrollHeight;
}

// Machine Y grows up; canvas Y grows down.
function toCanvas(pt) {
  return {x: canvas.width / 2 + pt.X * zoom, y: canvas.height / 2 - pt.Y * zoom};
}

let curPt = null;

function drawTo(points, rapid) {
  if (!points || points.length === 0) { return; }
  ctx.beginPath();
  ctx.strokeStyle = rapid ? "red" : "green";
  if (curPt !== null) {
    const c = toCanvas(curPt);
    ctx.moveTo(c.x, c.y);
  }
  for (const pt of points) {
    const c = toCanvas(pt);
    ctx.lineTo(c.x, c.y);
    curPt = pt;
  }
  ctx.stroke();
}

function clear() {
  ctx.clearRect(0, 0, canvas.width, canvas.height);
  curPt = null;
}

function create() {
  fetch("/api/jobs", {method: "POST", body: document.getElementById("program").value})
    .then(resp => resp.json())
    .then(status => {
      jobID = status.id;
      clear();
      logLine("loaded job " + jobID + " (" + status.statements + " statements)");
    });
}

function post(action) {
  if (jobID === null) { return; }
  fetch("/api/jobs/" + jobID + "/" + action, {method: "POST"});
  if (action === "reset") { clear(); }
}

const events = new EventSource("/events/jobs");
events.onmessage = function(msg) {
  const ev = JSON.parse(msg.data);
  if (ev.job !== jobID) { return; }
  if (ev.type === "segment") {
    drawTo(ev.points, ev.kind === "line" && ev.command.indexOf("G00") === 0);
    logLine(ev.elapsed.toFixed(2) + "s  " + ev.command);
  } else if (ev.type === "error") {
    logLine("ERROR: " + ev.error);
  } else if (ev.type === "finished") {
    logLine("finished at " + ev.elapsed.toFixed(2) + "s");
  }
};
    </script>
  </body>
</html>
`
